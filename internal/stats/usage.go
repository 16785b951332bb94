// Package stats holds the pure dashboard calculators. Every function
// here is a plain function of already-loaded records; no I/O, no
// clocks, no shared state, so a given input always produces the same
// output.
package stats

import (
	"github.com/fleetyard/fleetdash/internal/models"
)

// Usage computes the usage totals for a set of trips: distinct UTC
// days driven, total distance, total driving time and fuel economy.
// Fuel economy is nil when either total fuel or total distance is
// zero, so the caller can distinguish "no consumption data" from a
// genuine 0 L/100km.
func Usage(trips []models.Trip) models.UsageStats {
	usage := models.UsageStats{}
	days := make(map[string]struct{}, len(trips))
	var fuelUsed float64
	for _, t := range trips {
		days[t.Day()] = struct{}{}
		usage.DistanceDriven += t.Distance
		usage.TimeDriven += t.DrivingDuration
		fuelUsed += t.FuelUsed
	}
	usage.DaysDriven = len(days)
	if fuelUsed > 0 && usage.DistanceDriven > 0 {
		economy := fuelUsed / usage.DistanceDriven * 100
		usage.FuelEconomy = &economy
	}
	return usage
}
