package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fleetyard/fleetdash/internal/dashboard"
	dasherrors "github.com/fleetyard/fleetdash/internal/errors"
	"github.com/fleetyard/fleetdash/internal/models"
	"github.com/fleetyard/fleetdash/internal/telematics"
)

func newTestResources() (*Resources, *stubCaller) {
	caller := &stubCaller{}
	svc := dashboard.New(telematics.NewClient(caller))
	return NewResources(svc), caller
}

func TestGetDashboardLoadsRequestedDevice(t *testing.T) {
	res, caller := newTestResources()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/dashboard?device=d1&from=2024-05-01T00:00:00Z&to=2024-05-08T00:00:00Z", nil)
	w := httptest.NewRecorder()
	res.Dashboard.GetDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatal("status =", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Error("content type =", ct)
	}
	var snap models.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatal("response is not a snapshot:", err)
	}
	if snap.Device == nil || snap.Device.ID != "d1" {
		t.Errorf("loaded device: %+v", snap.Device)
	}
	if caller.invoked() == 0 {
		t.Error("load should have hit the telemetry API")
	}
}

func TestGetDashboardWithoutParamsReturnsCurrentSnapshot(t *testing.T) {
	res, caller := newTestResources()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	w := httptest.NewRecorder()
	res.Dashboard.GetDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatal("status =", w.Code)
	}
	var snap models.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatal("response is not a snapshot:", err)
	}
	if snap.Device != nil {
		t.Error("nothing was loaded, device should be null")
	}
	if snap.UsageBreakdown.Stopped != 100 {
		t.Error("idle snapshot should be fully stopped, got", snap.UsageBreakdown.Stopped)
	}
	if caller.invoked() != 0 {
		t.Error("plain read should not touch the telemetry API")
	}
}

func TestGetDashboardRejectsBadDates(t *testing.T) {
	res, caller := newTestResources()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?device=d1&from=yesterday", nil)
	w := httptest.NewRecorder()
	res.Dashboard.GetDashboard(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatal("status =", w.Code)
	}
	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal("error body not decodable:", err)
	}
	if body.Type != string(dasherrors.ErrorTypeValidation) {
		t.Error("error type =", body.Type)
	}
	if caller.invoked() != 0 {
		t.Error("rejected request should not touch the telemetry API")
	}
}

func TestRefreshWithoutPriorLoadIsSafe(t *testing.T) {
	res, caller := newTestResources()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/refresh", nil)
	w := httptest.NewRecorder()
	res.Dashboard.RefreshDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatal("status =", w.Code)
	}
	if caller.invoked() != 0 {
		t.Error("refresh with nothing loaded should not touch the telemetry API")
	}
}

func TestRefreshRepeatsThePreviousLoad(t *testing.T) {
	res, caller := newTestResources()

	load := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?device=d7", nil)
	res.Dashboard.GetDashboard(httptest.NewRecorder(), load)
	before := caller.invoked()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/refresh", nil)
	w := httptest.NewRecorder()
	res.Dashboard.RefreshDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatal("status =", w.Code)
	}
	var snap models.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatal("response is not a snapshot:", err)
	}
	if snap.Device == nil || snap.Device.ID != "d7" {
		t.Errorf("refresh should reload the same device: %+v", snap.Device)
	}
	if caller.invoked() != 2*before {
		t.Error("refresh should repeat the fetch, calls went from", before, "to", caller.invoked())
	}
}

func TestCancelAlwaysAnswersWithASnapshot(t *testing.T) {
	res, _ := newTestResources()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/cancel", nil)
	w := httptest.NewRecorder()
	res.Dashboard.CancelLoad(w, req)

	if w.Code != http.StatusOK {
		t.Fatal("status =", w.Code)
	}
	var snap models.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatal("response is not a snapshot:", err)
	}
	if snap.Loading {
		t.Error("nothing is in flight after cancel")
	}
}

func TestDefaultHealthCheckAnswersOK(t *testing.T) {
	res, _ := newTestResources()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	res.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatal("status =", w.Code)
	}
	if w.Body.String() != `{"status":"ok"}` {
		t.Error("body =", w.Body.String())
	}
}

// stubCaller answers the telemetry surface with empty record sets; the
// device lookup echoes the requested ID so handlers can be asserted
// against the device they asked for.
type stubCaller struct {
	mu      sync.Mutex
	invokes int
}

func (s *stubCaller) invoked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invokes
}

func (s *stubCaller) Invoke(ctx context.Context, method string, params any) (json.RawMessage, error) {
	s.mu.Lock()
	s.invokes++
	s.mu.Unlock()
	switch method {
	case telematics.MethodGetFeed:
		return json.RawMessage(`{"data":[],"toVersion":""}`), nil
	case telematics.MethodGet:
		return json.RawMessage(`[]`), nil
	case telematics.MethodExecuteMulti:
		return s.serveBatch(params)
	}
	return nil, fmt.Errorf("unexpected method %s", method)
}

func (s *stubCaller) serveBatch(params any) (json.RawMessage, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Calls []struct {
			Params struct {
				TypeName string `json:"typeName"`
				Search   struct {
					ID string `json:"id"`
				} `json:"search"`
			} `json:"params"`
		} `json:"calls"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	results := make([]any, 0, len(envelope.Calls))
	for _, call := range envelope.Calls {
		if call.Params.TypeName == telematics.TypeDevice {
			results = append(results, []any{map[string]any{"id": call.Params.Search.ID, "name": "Stub Truck"}})
		} else {
			results = append(results, []any{})
		}
	}
	return json.Marshal(results)
}
