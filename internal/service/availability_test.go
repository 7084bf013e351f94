package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

var testDay = time.Date(2030, time.June, 2, 0, 0, 0, 0, time.UTC)

func dayAt(h, m int) time.Time {
	return time.Date(2030, time.June, 2, h, m, 0, 0, time.UTC)
}

func booked(startH, startM, endH, endM int) model.Booking {
	return model.Booking{StartTime: dayAt(startH, startM), EndTime: dayAt(endH, endM)}
}

func TestFreeIntervals_EmptyDay(t *testing.T) {
	window := model.DayWindow(testDay)

	free := FreeIntervals(window, nil)

	assert.Equal(t, []model.Interval{window}, free, "no bookings means the whole day is free")
}

func TestFreeIntervals_SingleBooking(t *testing.T) {
	window := model.DayWindow(testDay)

	free := FreeIntervals(window, []model.Booking{booked(9, 0, 10, 30)})

	assert.Equal(t, []model.Interval{
		{Start: window.Start, End: dayAt(9, 0)},
		{Start: dayAt(10, 30), End: window.End},
	}, free)
}

func TestFreeIntervals_WallToWall(t *testing.T) {
	window := model.DayWindow(testDay)

	free := FreeIntervals(window, []model.Booking{
		{StartTime: window.Start, EndTime: window.End},
	})

	assert.NotNil(t, free)
	assert.Empty(t, free, "a fully booked day has no free intervals")
}

func TestFreeIntervals_AdjacentBookings(t *testing.T) {
	window := model.DayWindow(testDay)

	// Back-to-back bookings share a boundary; no zero-width gap may
	// appear between them.
	free := FreeIntervals(window, []model.Booking{
		booked(9, 0, 10, 0),
		booked(10, 0, 11, 0),
	})

	assert.Equal(t, []model.Interval{
		{Start: window.Start, End: dayAt(9, 0)},
		{Start: dayAt(11, 0), End: window.End},
	}, free)
}

func TestFreeIntervals_OverlappingBookingsFold(t *testing.T) {
	window := model.DayWindow(testDay)

	// 09:00-12:00 swallows the nested 10:00-11:00, and 11:30-13:00
	// extends the busy stretch, leaving one block 09:00-13:00.
	free := FreeIntervals(window, []model.Booking{
		booked(9, 0, 12, 0),
		booked(10, 0, 11, 0),
		booked(11, 30, 13, 0),
	})

	assert.Equal(t, []model.Interval{
		{Start: window.Start, End: dayAt(9, 0)},
		{Start: dayAt(13, 0), End: window.End},
	}, free)
}

func TestFreeIntervals_UnsortedInput(t *testing.T) {
	window := model.DayWindow(testDay)

	sorted := FreeIntervals(window, []model.Booking{
		booked(9, 0, 10, 0),
		booked(14, 0, 15, 0),
	})
	shuffled := FreeIntervals(window, []model.Booking{
		booked(14, 0, 15, 0),
		booked(9, 0, 10, 0),
	})

	assert.Equal(t, sorted, shuffled)
	assert.Len(t, shuffled, 3)
}

func TestFreeIntervals_InputNotMutated(t *testing.T) {
	window := model.DayWindow(testDay)
	bookings := []model.Booking{
		booked(14, 0, 15, 0),
		booked(9, 0, 10, 0),
	}

	FreeIntervals(window, bookings)

	assert.Equal(t, dayAt(14, 0), bookings[0].StartTime, "caller's slice must keep its order")
	assert.Equal(t, dayAt(9, 0), bookings[1].StartTime)
}

func TestFreeIntervals_BookingEndingAtWindowEnd(t *testing.T) {
	window := model.DayWindow(testDay)

	free := FreeIntervals(window, []model.Booking{
		{StartTime: dayAt(20, 0), EndTime: window.End},
	})

	assert.Equal(t, []model.Interval{
		{Start: window.Start, End: dayAt(20, 0)},
	}, free, "no trailing free interval after a booking that runs to the window end")
}
