// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/fleetyard/fleetdash/internal/dashboard"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Dashboard   *DashboardHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *dashboard.Service) *Resources {
	return &Resources{
		Dashboard: &DashboardHandlers{service: svc},
		HealthCheck: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}
