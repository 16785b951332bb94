// FilePath: internal/models/models.range.go
package models

import "time"

// DateRange bounds every query issued for a dashboard load.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewDateRange builds a normalized range from two instants.
func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: from, To: to}.Normalize()
}

// IsZero reports whether both bounds are unset.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Normalize returns a range guaranteed to satisfy From <= To. An
// inverted range collapses to the single instant From; a half-set
// range collapses to its non-zero bound.
func (r DateRange) Normalize() DateRange {
	switch {
	case r.From.IsZero() && !r.To.IsZero():
		r.From = r.To
	case r.To.IsZero() && !r.From.IsZero():
		r.To = r.From
	case r.From.After(r.To):
		r.To = r.From
	}
	return r
}

// Span returns the length of the range. Never negative.
func (r DateRange) Span() time.Duration {
	r = r.Normalize()
	return r.To.Sub(r.From)
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	r = r.Normalize()
	return !t.Before(r.From) && !t.After(r.To)
}
