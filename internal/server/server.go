// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	nuts "github.com/vaudience/go-nuts"

	"github.com/fleetyard/fleetdash/api"
	"github.com/fleetyard/fleetdash/internal/config"
	"github.com/fleetyard/fleetdash/internal/dashboard"
	"github.com/fleetyard/fleetdash/internal/monitoring"
	"github.com/fleetyard/fleetdash/internal/telematics"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	dashboard  *dashboard.Service
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	s.monitoring = monitoring.NewService(monitoring.Config{
		LogLevel: s.config.Monitoring.LogLevel,
	})
	s.dashboard = initializeDashboard(s.config, s.monitoring)

	// Wire snapshot lifecycle events into monitoring
	s.setupSnapshotHandlers()

	// Setup routes
	router := api.NewRouter(s.dashboard, s.monitoring)
	router.Resources().SetHealthCheck(s.handleHealth())
	s.srv.Handler = router

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	// Abort any in-flight dashboard load before closing the listener.
	s.dashboard.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handleHealth returns a simple health check handler
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupSnapshotHandlers() {
	s.dashboard.OnSnapshot(dashboard.EventSnapshotLoaded, func(deviceID string) {
		s.monitoring.RecordEvent("snapshot_loaded", map[string]string{
			"device_id": deviceID,
		})
	})

	s.dashboard.OnSnapshot(dashboard.EventSnapshotFailed, func(deviceID string) {
		s.monitoring.RecordEvent("snapshot_failed", map[string]string{
			"device_id": deviceID,
		})
	})
}

// initializeDashboard creates and configures the dashboard service
func initializeDashboard(cfg *config.Config, mon *monitoring.Service) *dashboard.Service {
	caller := telematics.NewHTTPCaller(cfg.Telemetry.Endpoint, cfg.Telemetry.Timeout)

	client := telematics.NewClient(caller)
	client.SetPageSize(cfg.Telemetry.PageSize)
	client.SetFallbackLimit(cfg.Telemetry.FallbackLimit)
	client.SetMetrics(mon)

	svc := dashboard.New(client)
	svc.SetMetrics(mon)
	return svc
}
