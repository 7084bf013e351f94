// Package service implements the booking engine: temporal validation,
// conflict-safe commits, availability computation and the surrounding
// orchestration. Operations take and return plain data so the HTTP
// layer stays a thin adapter.
package service

import "errors"

// Domain errors returned by the booking operations. Handlers translate
// them with errors.Is; anything not in this list is an infrastructure
// failure and maps to a generic 500.
var (
	// ErrMalformed covers unparseable input and missing required
	// fields, including an update that supplies no fields at all.
	// Maps to HTTP 400.
	ErrMalformed = errors.New("malformed request")

	// ErrInvalidInterval is returned when a window has end before or
	// equal to start. Maps to HTTP 400.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrPastStart is returned when a create or update places the
	// start of the window at or before the current instant. Read-only
	// availability queries are exempt. Maps to HTTP 400.
	ErrPastStart = errors.New("start time must be in the future")

	// ErrRoomNotFound is returned when the referenced room does not
	// exist. Maps to HTTP 404.
	ErrRoomNotFound = errors.New("room not found")

	// ErrSchedulingConflict is returned when the requested window
	// overlaps a committed booking on the same room. Maps to HTTP 409.
	ErrSchedulingConflict = errors.New("time window conflicts with an existing booking")

	// ErrBookingNotFound is returned when the booking id matches no
	// row, including the race where another request cancelled it
	// first. Maps to HTTP 404.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrForbidden is returned when the actor is neither the booking's
	// owner nor privileged for the attempted operation. Maps to HTTP
	// 403.
	ErrForbidden = errors.New("forbidden")
)
