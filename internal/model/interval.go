package model

import "time"

// Interval is a half-open time range [Start, End). A well-formed
// interval has Start strictly before End; zero-length and inverted
// ranges are rejected by validation before an Interval reaches any
// scheduling decision.
type Interval struct {
	Start time.Time // inclusive lower bound
	End   time.Time // exclusive upper bound
}

// NewInterval builds an interval without validating it. Callers that
// accept external input must check IsValid first.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// IsValid reports whether Start is strictly before End.
func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}

// Overlaps reports whether two half-open intervals intersect.
// Intervals that merely touch at a boundary (a.End == b.Start) do not
// overlap: a room handed over at 11:00 can be taken again at 11:00.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether the instant t falls inside [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Duration returns End minus Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// DayWindow returns the accounting window for the calendar day that
// contains the given instant, in UTC: from 00:00:00 up to
// 23:59:59.999999 of the same day. Bookings must fall entirely inside
// this window to count toward the day's availability; a booking that
// crosses midnight belongs to neither day's view.
func DayWindow(day time.Time) Interval {
	y, m, d := day.UTC().Date()
	return Interval{
		Start: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, m, d, 23, 59, 59, 999999000, time.UTC),
	}
}
