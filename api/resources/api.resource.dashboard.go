// FilePath: api/resources/api.resource.dashboard.go
package resources

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"

	"github.com/fleetyard/fleetdash/internal/dashboard"
	"github.com/fleetyard/fleetdash/internal/errors"
	"github.com/fleetyard/fleetdash/internal/models"
)

// defaultLookback is the range used when a device is requested without
// explicit bounds.
const defaultLookback = 7 * 24 * time.Hour

// DashboardHandlers encapsulates the dashboard HTTP handlers
type DashboardHandlers struct {
	service *dashboard.Service
}

// dashboardQuery holds the GET /dashboard query parameters.
type dashboardQuery struct {
	Device string `schema:"device"`
	From   string `schema:"from"`
	To     string `schema:"to"`
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// @Summary Load a device dashboard
// @Description Load and aggregate telemetry for one device over a date range. Without parameters, returns the currently published snapshot.
// @Tags dashboard
// @Produce json
// @Param device query string false "Device ID"
// @Param from query string false "Range start (RFC3339), defaults to 7 days ago"
// @Param to query string false "Range end (RFC3339), defaults to now"
// @Success 200 {object} models.Snapshot
// @Failure 400 {object} errors.DashError
// @Router /dashboard [get]
func (h *DashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q dashboardQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	if q.Device == "" && q.From == "" && q.To == "" {
		respondWithJSON(w, http.StatusOK, h.service.Snapshot())
		return
	}

	dateRange, err := parseRange(q.From, q.To)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid date range", err).WithRequestID(requestID))
		return
	}

	snap, loadErr := h.service.Load(r.Context(), q.Device, dateRange)
	if loadErr != nil {
		// The snapshot already carries the error and the previous
		// data; the client decides how to present it.
		nuts.L.Warnf("[DashboardAPI] load %s failed for device %s: %v", requestID, q.Device, loadErr)
	}
	respondWithJSON(w, http.StatusOK, snap)
}

// @Summary Refresh the dashboard
// @Description Re-run the last requested load with identical parameters
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.Snapshot
// @Router /dashboard/refresh [post]
func (h *DashboardHandlers) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	snap, err := h.service.Refresh(r.Context())
	if err != nil {
		nuts.L.Warnf("[DashboardAPI] refresh %s failed: %v", requestID, err)
	}
	respondWithJSON(w, http.StatusOK, snap)
}

// @Summary Cancel an in-flight load
// @Description Abort the currently running load, if any. Never fails.
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.Snapshot
// @Router /dashboard/cancel [post]
func (h *DashboardHandlers) CancelLoad(w http.ResponseWriter, r *http.Request) {
	h.service.Cancel()
	respondWithJSON(w, http.StatusOK, h.service.Snapshot())
}

// parseRange turns the query strings into a date range. Absent bounds
// default to the trailing lookback window ending now.
func parseRange(fromStr, toStr string) (models.DateRange, error) {
	now := time.Now().UTC()
	from := now.Add(-defaultLookback)
	to := now

	if fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return models.DateRange{}, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return models.DateRange{}, err
		}
		to = parsed
	}
	return models.NewDateRange(from, to), nil
}

func respondWithError(w http.ResponseWriter, err *errors.DashError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
