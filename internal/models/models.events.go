// FilePath: internal/models/models.events.go
package models

import "time"

// ExceptionEvent is a rule violation recorded for a device. RuleName
// and Driver are resolved during aggregation from the rule and driver
// lookup tables; the wire record only carries the IDs.
type ExceptionEvent struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"deviceId"`
	RuleID     string    `json:"ruleId"`
	DriverID   string    `json:"driverId,omitempty"`
	ActiveFrom time.Time `json:"activeFrom"`
	ActiveTo   time.Time `json:"activeTo"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Severity   string    `json:"severity,omitempty"`
	State      string    `json:"state,omitempty"`
	RuleName   string    `json:"ruleName,omitempty"`
	Driver     *Driver   `json:"driver,omitempty"`
}

// Duration returns how long the exception was active.
func (e ExceptionEvent) Duration() time.Duration {
	if e.ActiveTo.Before(e.ActiveFrom) {
		return 0
	}
	return e.ActiveTo.Sub(e.ActiveFrom)
}

// FillUp is one refuelling transaction. VolumeAdded is canonical; the
// wire layer folds the upstream field variants into it.
type FillUp struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"deviceId"`
	DriverID    string    `json:"driverId,omitempty"`
	Date        time.Time `json:"date"`
	VolumeAdded float64   `json:"volumeAdded"`           // litres
	FuelEconomy float64   `json:"fuelEconomy,omitempty"` // L/100km as reported upstream
	Odometer    float64   `json:"odometer,omitempty"`    // km at fill-up time
	Location    string    `json:"location,omitempty"`
	Driver      *Driver   `json:"driver,omitempty"`
}

// StatusReading is a single diagnostic sample (fuel level, odometer).
type StatusReading struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}
