package handler

import (
	"fmt"
	"time"
)

// Timestamps cross the HTTP boundary as ISO-8601 strings in two accepted
// shapes: with an explicit UTC offset (RFC 3339) or naive, in which case
// they are read as UTC. A single request must not mix the two shapes; a
// window built from one aware and one naive timestamp is rejected instead
// of silently coerced.

// naiveLayout is ISO-8601 without an offset. time.Parse reads it as UTC.
const naiveLayout = "2006-01-02T15:04:05"

// parseTimestamp parses one timestamp and reports whether it carried an
// explicit offset. The result is always normalized to UTC.
func parseTimestamp(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(naiveLayout, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseWindow parses a start/end pair, requiring both timestamps to be the
// same shape.
func parseWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, startAware, err := parseTimestamp(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, endAware, err := parseTimestamp(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startAware != endAware {
		return time.Time{}, time.Time{}, fmt.Errorf("mixed timestamp shapes: %q and %q", startRaw, endRaw)
	}
	return start, end, nil
}

// parseDay reads a YYYY-MM-DD query value, defaulting to today in UTC when
// empty.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return d, nil
}
