package models

import (
	"testing"
	"time"
)

func TestNormalizeCollapsesInvertedRange(t *testing.T) {
	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: from, To: from.Add(-48 * time.Hour)}.Normalize()

	if !r.To.Equal(r.From) {
		t.Error("inverted range should collapse to From, got To =", r.To)
	}
	if r.Span() != 0 {
		t.Error("collapsed range should have zero span, got", r.Span())
	}
}

func TestNormalizeFillsHalfSetRanges(t *testing.T) {
	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	r := DateRange{From: ts}.Normalize()
	if !r.To.Equal(ts) {
		t.Error("To should fall back to From, got", r.To)
	}

	r = DateRange{To: ts}.Normalize()
	if !r.From.Equal(ts) {
		t.Error("From should fall back to To, got", r.From)
	}
}

func TestSpanIsNeverNegative(t *testing.T) {
	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	ranges := []DateRange{
		{},
		{From: from},
		{To: from},
		{From: from, To: from.Add(-time.Hour)},
		{From: from, To: from.Add(time.Hour)},
	}
	for _, r := range ranges {
		if r.Span() < 0 {
			t.Errorf("span of %+v is negative: %v", r, r.Span())
		}
	}
}

func TestIsZeroOnlyForFullyUnsetRange(t *testing.T) {
	if !(DateRange{}).IsZero() {
		t.Error("empty range should be zero")
	}
	if (DateRange{From: time.Now()}).IsZero() {
		t.Error("half-set range should not be zero")
	}
}

func TestTripDayUsesUTCCalendar(t *testing.T) {
	cest := time.FixedZone("CEST", 2*3600)
	// 01:30 local on May 2nd is still May 1st in UTC.
	trip := Trip{Start: time.Date(2024, 5, 2, 1, 30, 0, 0, cest)}
	if trip.Day() != "2024-05-01" {
		t.Error("expected UTC day 2024-05-01, got", trip.Day())
	}
}

func TestDriverDisplayName(t *testing.T) {
	cases := []struct {
		driver Driver
		want   string
	}{
		{Driver{FirstName: "Ana", LastName: "Reyes"}, "Ana Reyes"},
		{Driver{FirstName: "Ana"}, "Ana"},
		{Driver{LastName: "Reyes"}, "Reyes"},
		{Driver{}, ""},
	}
	for _, c := range cases {
		if got := c.driver.DisplayName(); got != c.want {
			t.Errorf("DisplayName of %+v = %q, want %q", c.driver, got, c.want)
		}
	}
}

func TestEmptySnapshotIsFullyStopped(t *testing.T) {
	snap := EmptySnapshot()
	if snap.Loading {
		t.Error("idle snapshot should not be loading")
	}
	if snap.UsageBreakdown.Stopped != 100 {
		t.Error("idle snapshot should count the whole range as stopped")
	}
	if snap.Trips == nil || snap.Exceptions == nil || snap.FuelUps == nil {
		t.Error("idle snapshot should carry empty slices, not nils")
	}
}

func TestExceptionDurationNeverNegative(t *testing.T) {
	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	e := ExceptionEvent{ActiveFrom: ts, ActiveTo: ts.Add(-time.Minute)}
	if e.Duration() != 0 {
		t.Error("inverted exception window should have zero duration, got", e.Duration())
	}
}
