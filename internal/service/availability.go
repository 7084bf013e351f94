package service

import (
	"sort"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// FreeIntervals computes the complement of the given bookings within
// the day window: the maximal sub-ranges during which the room has no
// booking. The input is expected to contain only bookings fully inside
// the window (ListWithinWindow guarantees that); the function sorts a
// copy by start time, keeping the incoming order as tie-break, so the
// caller's slice is never mutated and repeated calls over the same
// data return identical results.
//
// Sweep: walk the bookings in start order, emit [cursor, start) for
// every gap, and advance the cursor to the furthest end seen, which
// folds overlapping or nested bookings into one busy stretch. Whatever
// remains before the window's end is the final free interval. A room
// booked wall-to-wall yields an empty (non-nil) slice.
func FreeIntervals(window model.Interval, bookings []model.Booking) []model.Interval {
	sorted := make([]model.Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	free := make([]model.Interval, 0, len(sorted)+1)
	cursor := window.Start
	for _, b := range sorted {
		if b.StartTime.After(cursor) {
			free = append(free, model.Interval{Start: cursor, End: b.StartTime})
		}
		if b.EndTime.After(cursor) {
			cursor = b.EndTime
		}
	}
	if cursor.Before(window.End) {
		free = append(free, model.Interval{Start: cursor, End: window.End})
	}
	return free
}
