// FilePath: internal/models/models.snapshot.go
package models

import "time"

// UsageStats summarizes how much a device was used over the loaded
// range. FuelLevel and Odometer come from status data rather than from
// trips and are filled in by the aggregator after the trip totals are
// computed.
type UsageStats struct {
	DaysDriven     int           `json:"daysDriven"`
	DistanceDriven float64       `json:"distanceDriven"` // km
	TimeDriven     time.Duration `json:"timeDriven"`
	FuelEconomy    *float64      `json:"fuelEconomy,omitempty"` // L/100km, nil when undefined
	FuelLevel      *float64      `json:"fuelLevel,omitempty"`   // percent
	Odometer       *float64      `json:"odometer,omitempty"`    // km
}

// UsageBreakdown splits the loaded range into driving, idling and
// stopped shares. The three percentages sum to 100 within float
// rounding.
type UsageBreakdown struct {
	Driving float64 `json:"driving"`
	Idle    float64 `json:"idle"`
	Stopped float64 `json:"stopped"`
}

// RuleCount is one exceptions-by-rule group.
type RuleCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Snapshot is the complete joined and derived result set for one
// (device, date range) load. On a failed reload the data fields keep
// their previous values; only Loading and Error change.
type Snapshot struct {
	Loading          bool             `json:"loading"`
	Error            string           `json:"error,omitempty"`
	GeneratedAt      time.Time        `json:"generatedAt"`
	Device           *Device          `json:"device,omitempty"`
	Trips            []Trip           `json:"trips"`
	Exceptions       []ExceptionEvent `json:"exceptions"`
	FuelUps          []FillUp         `json:"fuelUps"`
	Rules            []Rule           `json:"rules"`
	Drivers          []Driver         `json:"drivers"`
	FuelLevel        *float64         `json:"fuelLevel,omitempty"` // percent, nil when no recent reading
	Odometer         *float64         `json:"odometer,omitempty"`  // km, nil when unresolvable
	UsageStats       UsageStats       `json:"usageStats"`
	UsageBreakdown   UsageBreakdown   `json:"usageBreakdown"`
	ExceptionsByRule []RuleCount      `json:"exceptionsByRule"`
}

// EmptySnapshot returns the idle snapshot: no data, not loading, the
// whole range counted as stopped.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Trips:            []Trip{},
		Exceptions:       []ExceptionEvent{},
		FuelUps:          []FillUp{},
		Rules:            []Rule{},
		Drivers:          []Driver{},
		UsageBreakdown:   UsageBreakdown{Stopped: 100},
		ExceptionsByRule: []RuleCount{},
	}
}
