// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers to distinguish
// failure scenarios without string matching. For example, ErrOverlap
// signals that a write was refused because it would double-book a room,
// while ErrConflict signals that a delete cannot proceed due to existing
// dependent records (e.g. removing a room that still has upcoming
// bookings).
package repository

import "errors"

// ErrRoomNotFound is returned when a referenced room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking lookup or delete
// matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrReviewNotFound is returned when a review lookup matches no row.
var ErrReviewNotFound = errors.New("review not found")

// ErrOverlap is returned when a booking insert or update is refused
// because the requested window overlaps a committed booking on the
// same room. The check and the write happen in one transaction, so a
// caller seeing nil instead of ErrOverlap holds a committed,
// conflict-free row.
var ErrOverlap = errors.New("booking overlaps an existing booking")

// ErrRoomNameTaken is returned when a room insert or rename collides
// with an existing room name.
var ErrRoomNameTaken = errors.New("room name already exists")

// ErrConflict is returned when a delete cannot be performed because of
// dependent state, such as removing a room that still has upcoming
// bookings.
var ErrConflict = errors.New("conflict")
