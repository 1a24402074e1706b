package schedule

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid reports whether the interval has positive length.
func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}

// Overlaps reports whether two half-open intervals share any instant.
// Intervals that merely touch (a.End == b.Start) do not overlap.
// Callers must reject zero-length or inverted intervals before calling.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
