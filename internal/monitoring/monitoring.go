package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	LogLevel string
}

// Service owns the fleetdash Prometheus collectors. It registers them
// on its own registry so constructing a second Service (tests) never
// trips the duplicate registration panic of the default registry.
type Service struct {
	config   Config
	registry *prometheus.Registry

	rpcCalls     *prometheus.CounterVec
	rpcDuration  *prometheus.HistogramVec
	feedPages    *prometheus.CounterVec
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	events       *prometheus.CounterVec
}

// NewService creates a new monitoring service
func NewService(config Config) *Service {
	s := &Service{
		config:   config,
		registry: prometheus.NewRegistry(),
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetdash",
			Name:      "rpc_calls_total",
			Help:      "RPC calls issued to the telemetry API.",
		}, []string{"method", "status"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fleetdash",
			Name:      "rpc_call_duration_seconds",
			Help:      "Latency of telemetry API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		feedPages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetdash",
			Name:      "feed_pages_total",
			Help:      "Feed pages fetched, per entity type.",
		}, []string{"type"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetdash",
			Name:      "dashboard_loads_total",
			Help:      "Dashboard load attempts by outcome.",
		}, []string{"result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fleetdash",
			Name:      "dashboard_load_duration_seconds",
			Help:      "End-to-end dashboard load latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetdash",
			Name:      "events_total",
			Help:      "Internal lifecycle events.",
		}, []string{"event"}),
	}
	s.registry.MustRegister(s.rpcCalls, s.rpcDuration, s.feedPages, s.loads, s.loadDuration, s.events)
	return s
}

// Handler serves the collected metrics in Prometheus text format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// RecordRPCCall records one telemetry API call. Nil-safe so the client
// can run without monitoring attached.
func (s *Service) RecordRPCCall(method string, err error, elapsed time.Duration) {
	if s == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.rpcCalls.WithLabelValues(method, status).Inc()
	s.rpcDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// RecordFeedPage counts one fetched feed page.
func (s *Service) RecordFeedPage(typeName string) {
	if s == nil {
		return
	}
	s.feedPages.WithLabelValues(typeName).Inc()
}

// RecordLoad records the outcome of one dashboard load.
func (s *Service) RecordLoad(result string, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.loads.WithLabelValues(result).Inc()
	s.loadDuration.Observe(elapsed.Seconds())
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	if s == nil {
		return
	}
	s.events.WithLabelValues(eventName).Inc()
	nuts.L.Debugf("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}
