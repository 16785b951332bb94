// Package dashboard assembles device telemetry into complete
// dashboard snapshots: fetch, join, derive, publish.
package dashboard

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/fleetyard/fleetdash/internal/models"
	"github.com/fleetyard/fleetdash/internal/monitoring"
	"github.com/fleetyard/fleetdash/internal/telematics"
)

// Lifecycle events emitted around every load.
const (
	EventSnapshotLoaded = "snapshot.loaded"
	EventSnapshotFailed = "snapshot.failed"
)

// Service aggregates one device's telemetry into a dashboard snapshot.
// It owns at most one in-flight load: a newer Load cancels and
// supersedes an older one, and the superseded call resolves as a
// no-op. All published state lives in a single snapshot guarded by mu.
type Service struct {
	client  *telematics.Client
	events  *nuts.EventEmitter
	metrics *monitoring.Service

	mu         sync.Mutex
	seq        uint64
	cancel     context.CancelFunc
	snap       models.Snapshot
	lastDevice string
	lastRange  models.DateRange
}

// New creates a dashboard service on top of a telemetry client.
func New(client *telematics.Client) *Service {
	return &Service{
		client: client,
		events: nuts.NewEventEmitter(),
		snap:   models.EmptySnapshot(),
	}
}

// Events exposes the lifecycle emitter so callers can hook
// EventSnapshotLoaded and EventSnapshotFailed.
func (s *Service) Events() *nuts.EventEmitter {
	return s.events
}

// OnSnapshot registers a callback for snapshot lifecycle events,
// called with the device ID the load was for.
func (s *Service) OnSnapshot(event string, handler func(deviceID string)) {
	s.events.On(event, "snapshot_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if deviceID, ok := args[0].(string); ok {
				handler(deviceID)
			}
		}
	})
}

// SetMetrics attaches a monitoring service. Safe to leave unset.
func (s *Service) SetMetrics(m *monitoring.Service) {
	s.metrics = m
}

// Snapshot returns the currently published snapshot.
func (s *Service) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Load fetches, joins and derives the dashboard for one device and
// range, publishes the result and returns it.
//
//   - A missing device ID or an empty range publishes the idle
//     snapshot immediately, without touching the network.
//   - A Load issued while another is in flight cancels and supersedes
//     it; the superseded call returns the published snapshot with no
//     error.
//   - On failure the previously published data fields stay intact;
//     only the error flag changes. The error is also returned so
//     non-HTTP callers can branch on it.
//   - Cancellation is never reported as a failure.
func (s *Service) Load(ctx context.Context, deviceID string, r models.DateRange) (models.Snapshot, error) {
	if deviceID == "" || r.IsZero() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cancelInFlightLocked()
		s.seq++
		s.snap = models.EmptySnapshot()
		s.lastDevice = ""
		s.lastRange = models.DateRange{}
		return s.snap, nil
	}
	r = r.Normalize()

	s.mu.Lock()
	s.cancelInFlightLocked()
	s.seq++
	seq := s.seq
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.lastDevice = deviceID
	s.lastRange = r
	s.snap.Loading = true
	s.snap.Error = ""
	s.mu.Unlock()

	nuts.L.Infof("[Dashboard] Loading device %s (%s .. %s)",
		deviceID, r.From.Format(time.RFC3339), r.To.Format(time.RFC3339))
	start := time.Now()
	snap, err := s.assemble(loadCtx, deviceID, r)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != seq {
		// A newer load or an explicit Cancel owns the state now; this
		// result is obsolete regardless of how it came out.
		s.metrics.RecordLoad("superseded", time.Since(start))
		return s.snap, nil
	}
	s.cancel = nil
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			// Canceled from outside (caller context went away) without
			// a superseding load. Not a failure: keep the published
			// data, just stop showing the spinner.
			s.snap.Loading = false
			s.metrics.RecordLoad("canceled", time.Since(start))
			return s.snap, nil
		}
		s.snap.Loading = false
		s.snap.Error = err.Error()
		s.metrics.RecordLoad("error", time.Since(start))
		s.events.Emit(EventSnapshotFailed, deviceID, err)
		nuts.L.Errorf("[Dashboard] Load failed for device %s: %v", deviceID, err)
		return s.snap, err
	}
	snap.Loading = false
	snap.GeneratedAt = time.Now().UTC()
	s.snap = snap
	s.metrics.RecordLoad("ok", time.Since(start))
	s.events.Emit(EventSnapshotLoaded, deviceID)
	nuts.L.Infof("[Dashboard] Loaded device %s: %d trips, %d exceptions, %d fill-ups in %s",
		deviceID, len(snap.Trips), len(snap.Exceptions), len(snap.FuelUps),
		time.Since(start).Round(time.Millisecond))
	return s.snap, nil
}

// Refresh re-runs the last requested load with the same device and
// range. With nothing loaded yet it just returns the current snapshot.
func (s *Service) Refresh(ctx context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	deviceID, r := s.lastDevice, s.lastRange
	s.mu.Unlock()
	if deviceID == "" {
		return s.Snapshot(), nil
	}
	nuts.L.Infof("[Dashboard] Refreshing device %s", deviceID)
	return s.Load(ctx, deviceID, r)
}

// Cancel aborts any in-flight load. The aborted load resolves as a
// no-op and never records an error; only the loading flag is cleared.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelInFlightLocked()
	s.seq++
	s.snap.Loading = false
}

func (s *Service) cancelInFlightLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
