// FilePath: internal/telematics/wire.go
package telematics

import (
	"time"

	"github.com/fleetyard/fleetdash/internal/models"
)

// Search shapes sent with Get/GetFeed calls. Field names follow the
// remote API.

// DeviceSearch matches a single device by ID.
type DeviceSearch struct {
	ID string `json:"id"`
}

// DiagnosticSearch matches one diagnostic stream.
type DiagnosticSearch struct {
	ID string `json:"id"`
}

// TripSearch filters trips by device and time window.
type TripSearch struct {
	DeviceSearch *DeviceSearch `json:"deviceSearch,omitempty"`
	FromDate     time.Time     `json:"fromDate"`
	ToDate       time.Time     `json:"toDate"`
}

// ExceptionSearch filters exception events by device and time window.
type ExceptionSearch struct {
	DeviceSearch *DeviceSearch `json:"deviceSearch,omitempty"`
	FromDate     time.Time     `json:"fromDate"`
	ToDate       time.Time     `json:"toDate"`
}

// FillUpSearch filters fill-up transactions by device and time window.
type FillUpSearch struct {
	DeviceSearch *DeviceSearch `json:"deviceSearch,omitempty"`
	FromDate     time.Time     `json:"fromDate"`
	ToDate       time.Time     `json:"toDate"`
}

// StatusSearch filters diagnostic samples by device, diagnostic and
// time window.
type StatusSearch struct {
	DeviceSearch     *DeviceSearch     `json:"deviceSearch,omitempty"`
	DiagnosticSearch *DiagnosticSearch `json:"diagnosticSearch,omitempty"`
	FromDate         time.Time         `json:"fromDate"`
	ToDate           time.Time         `json:"toDate"`
}

// UserSearch filters users; the dashboard only ever asks for drivers.
type UserSearch struct {
	IsDriver bool `json:"isDriver"`
}

// Wire representations of upstream records. Every known field variant
// is mapped onto one canonical model field here so nothing above the
// adapter ever sees a wire shape, and unit conversions happen exactly
// once.

type wireRef struct {
	ID string `json:"id"`
}

type wireDevice struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SerialNumber string  `json:"serialNumber"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Odometer     float64 `json:"odometer"`
}

type wireTrip struct {
	ID       string    `json:"id"`
	Device   wireRef   `json:"device"`
	Start    time.Time `json:"start"`
	Stop     time.Time `json:"stop"`
	Distance float64   `json:"distance"`
	// Durations arrive as seconds.
	DrivingDuration     float64 `json:"drivingDuration"`
	IdlingDuration      float64 `json:"idlingDuration"`
	SpeedRange1Duration float64 `json:"speedRange1Duration"`
	SpeedRange2Duration float64 `json:"speedRange2Duration"`
	SpeedRange3Duration float64 `json:"speedRange3Duration"`
	FuelUsed            float64 `json:"fuelUsed"`
}

type wireException struct {
	ID         string    `json:"id"`
	Device     wireRef   `json:"device"`
	Rule       wireRef   `json:"rule"`
	Driver     *wireRef  `json:"driver"`
	ActiveFrom time.Time `json:"activeFrom"`
	ActiveTo   time.Time `json:"activeTo"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	Severity   string    `json:"severity"`
	State      string    `json:"state"`
}

type wireFillUp struct {
	ID       string    `json:"id"`
	Device   wireRef   `json:"device"`
	Driver   *wireRef  `json:"driver"`
	DateTime time.Time `json:"dateTime"`
	// Added volume shows up under two names depending on the source
	// of the transaction; FuelAdded wins when both are present.
	FuelAdded   *float64 `json:"fuelAdded"`
	Volume      *float64 `json:"volume"`
	FuelEconomy float64  `json:"fuelEconomy"`
	Odometer    float64  `json:"odometer"`
	Location    string   `json:"location"`
}

type wireStatusData struct {
	Data     float64   `json:"data"`
	DateTime time.Time `json:"dateTime"`
}

type wireRule struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsDriver  bool   `json:"isDriver"`
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func normalizeDevice(w wireDevice) *models.Device {
	return &models.Device{
		ID:           w.ID,
		Name:         w.Name,
		SerialNumber: w.SerialNumber,
		Make:         w.Make,
		Model:        w.Model,
		Year:         w.Year,
		Odometer:     w.Odometer,
	}
}

func normalizeTrips(ws []wireTrip) []models.Trip {
	trips := make([]models.Trip, 0, len(ws))
	for _, w := range ws {
		trips = append(trips, models.Trip{
			ID:                  w.ID,
			DeviceID:            w.Device.ID,
			Start:               w.Start.UTC(),
			Stop:                w.Stop.UTC(),
			Distance:            w.Distance,
			DrivingDuration:     secondsToDuration(w.DrivingDuration),
			IdlingDuration:      secondsToDuration(w.IdlingDuration),
			SpeedRange1Duration: secondsToDuration(w.SpeedRange1Duration),
			SpeedRange2Duration: secondsToDuration(w.SpeedRange2Duration),
			SpeedRange3Duration: secondsToDuration(w.SpeedRange3Duration),
			FuelUsed:            w.FuelUsed,
		})
	}
	return trips
}

func normalizeExceptions(ws []wireException) []models.ExceptionEvent {
	events := make([]models.ExceptionEvent, 0, len(ws))
	for _, w := range ws {
		e := models.ExceptionEvent{
			ID:         w.ID,
			DeviceID:   w.Device.ID,
			RuleID:     w.Rule.ID,
			ActiveFrom: w.ActiveFrom.UTC(),
			ActiveTo:   w.ActiveTo.UTC(),
			Latitude:   w.Latitude,
			Longitude:  w.Longitude,
			Severity:   w.Severity,
			State:      w.State,
		}
		if w.Driver != nil {
			e.DriverID = w.Driver.ID
		}
		events = append(events, e)
	}
	return events
}

func normalizeFillUps(ws []wireFillUp) []models.FillUp {
	fills := make([]models.FillUp, 0, len(ws))
	for _, w := range ws {
		f := models.FillUp{
			ID:          w.ID,
			DeviceID:    w.Device.ID,
			Date:        w.DateTime.UTC(),
			FuelEconomy: w.FuelEconomy,
			Odometer:    w.Odometer,
			Location:    w.Location,
		}
		if w.Driver != nil {
			f.DriverID = w.Driver.ID
		}
		switch {
		case w.FuelAdded != nil:
			f.VolumeAdded = *w.FuelAdded
		case w.Volume != nil:
			f.VolumeAdded = *w.Volume
		}
		fills = append(fills, f)
	}
	return fills
}

// latestReading picks the most recent sample. The status query asks
// for a single record, but a server that ignores the limit still gets
// handled correctly.
func latestReading(ws []wireStatusData) *models.StatusReading {
	var latest *models.StatusReading
	for _, w := range ws {
		if latest == nil || w.DateTime.After(latest.Timestamp) {
			latest = &models.StatusReading{Value: w.Data, Timestamp: w.DateTime.UTC()}
		}
	}
	return latest
}

func normalizeRules(ws []wireRule) []models.Rule {
	rules := make([]models.Rule, 0, len(ws))
	for _, w := range ws {
		rules = append(rules, models.Rule{ID: w.ID, Name: w.Name})
	}
	return rules
}

func normalizeDrivers(ws []wireUser) []models.Driver {
	drivers := make([]models.Driver, 0, len(ws))
	for _, w := range ws {
		drivers = append(drivers, models.Driver{ID: w.ID, FirstName: w.FirstName, LastName: w.LastName})
	}
	return drivers
}
