package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fleetyard/fleetdash/api/middleware"
	"github.com/fleetyard/fleetdash/api/resources"
	"github.com/fleetyard/fleetdash/internal/dashboard"
	"github.com/fleetyard/fleetdash/internal/monitoring"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
}

func NewRouter(svc *dashboard.Service, mon *monitoring.Service) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes(mon)
	return r
}

// Resources exposes the handler set so the server can inject its own
// health check.
func (r *Router) Resources() *resources.Resources {
	return r.resources
}

func (r *Router) setupRoutes(mon *monitoring.Service) {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)

	// Dashboard
	api.HandleFunc("/dashboard", r.resources.Dashboard.GetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/refresh", r.resources.Dashboard.RefreshDashboard).Methods(http.MethodPost)
	api.HandleFunc("/dashboard/cancel", r.resources.Dashboard.CancelLoad).Methods(http.MethodPost)

	// Prometheus metrics live outside the versioned prefix
	if mon != nil {
		r.router.Handle("/metrics", mon.Handler()).Methods(http.MethodGet)
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	middleware.Chain(r.router).ServeHTTP(w, req)
}
