package stats

import (
	"time"

	"github.com/fleetyard/fleetdash/internal/models"
)

// Breakdown splits the loaded range into driving, idling and stopped
// shares, each as a percentage of the whole span. Stopped is the
// remainder, so the three values sum to 100 within float rounding.
// A zero-length range or an empty trip set counts as fully stopped.
func Breakdown(trips []models.Trip, r models.DateRange) models.UsageBreakdown {
	span := r.Span()
	if span <= 0 || len(trips) == 0 {
		return models.UsageBreakdown{Stopped: 100}
	}
	var driving, idling time.Duration
	for _, t := range trips {
		driving += t.DrivingDuration
		idling += t.IdlingDuration
	}
	stopped := span - driving - idling
	if stopped < 0 {
		stopped = 0
	}
	return models.UsageBreakdown{
		Driving: percentOf(driving, span),
		Idle:    percentOf(idling, span),
		Stopped: percentOf(stopped, span),
	}
}

func percentOf(part, whole time.Duration) float64 {
	p := float64(part) / float64(whole) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
