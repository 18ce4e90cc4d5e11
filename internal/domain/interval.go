package domain

import "time"

// Interval is a half-open booking window [Start, End). End may be zero for
// open-ended carsharing bookings; callers default it before conflict checks.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval from a start and optional end.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// OpenEnded reports whether the interval has no end time.
func (i Interval) OpenEnded() bool {
	return i.End.IsZero()
}

// Valid reports whether the interval is well-formed: a non-zero start and,
// when an end is present, an end strictly after the start.
func (i Interval) Valid() bool {
	if i.Start.IsZero() {
		return false
	}
	return i.OpenEnded() || i.End.After(i.Start)
}

// Duration returns End - Start. Zero for open-ended intervals.
func (i Interval) Duration() time.Duration {
	if i.OpenEnded() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints (one ends exactly when the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}
