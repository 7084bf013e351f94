package model

import "time"

// Booking records a user's claim on a meeting room for a fixed time
// window. Committed bookings for the same room never overlap; the
// window is half-open, so a booking ending at 11:00 and one starting
// at 11:00 coexist. Cancelling a booking deletes the row outright.
//
// Fields:
//  ID        – primary key identifier, assigned at commit, never reused.
//  RoomID    – room being reserved.
//  UserID    – user who requested the booking.
//  StartTime – start of the reserved window (UTC).
//  EndTime   – end of the reserved window (UTC, strictly after StartTime).
//  CreatedAt – set server-side when the row is committed.
//  UpdatedAt – last modification timestamp.
type Booking struct {
	ID        uint64    // bookings.id
	RoomID    uint64    // bookings.room_id
	UserID    uint64    // bookings.user_id
	StartTime time.Time // bookings.start_time
	EndTime   time.Time // bookings.end_time
	CreatedAt time.Time // bookings.created_at
	UpdatedAt time.Time // bookings.updated_at
}

// Interval returns the booking's time window as a half-open interval.
func (b Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// BookingPatch carries the optional fields of a partial update. A nil
// field means "keep the stored value"; only non-nil fields are written
// back. An all-nil patch is rejected before it reaches storage.
type BookingPatch struct {
	RoomID    *uint64    // reassign the booking to another room
	StartTime *time.Time // move the window start
	EndTime   *time.Time // move the window end
}

// IsEmpty reports whether the patch carries no fields at all.
func (p BookingPatch) IsEmpty() bool {
	return p.RoomID == nil && p.StartTime == nil && p.EndTime == nil
}
