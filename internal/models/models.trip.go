// FilePath: internal/models/models.trip.go
package models

import "time"

// Trip is one completed journey of a device. All durations are already
// converted from the wire representation; timestamps are UTC.
type Trip struct {
	ID                  string        `json:"id"`
	DeviceID            string        `json:"deviceId"`
	Start               time.Time     `json:"start"`
	Stop                time.Time     `json:"stop"`
	Distance            float64       `json:"distance"` // km
	DrivingDuration     time.Duration `json:"drivingDuration"`
	IdlingDuration      time.Duration `json:"idlingDuration"`
	SpeedRange1Duration time.Duration `json:"speedRange1Duration,omitempty"`
	SpeedRange2Duration time.Duration `json:"speedRange2Duration,omitempty"`
	SpeedRange3Duration time.Duration `json:"speedRange3Duration,omitempty"`
	FuelUsed            float64       `json:"fuelUsed,omitempty"` // litres
}

// Day returns the UTC calendar day the trip started on, used for
// days-driven deduplication.
func (t Trip) Day() string {
	return t.Start.UTC().Format("2006-01-02")
}
