// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in BookingEvent.Type.
const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
)

// QueueName is the durable queue all booking events are published to.
const QueueName = "booking.events"

// BookingEvent is published after a booking is committed, changed or
// cancelled. It carries enough resolved display data (room name,
// requester contact) for downstream consumers to render notifications
// without querying the primary database. Publishing is best-effort: a
// lost event never affects the booking itself.
type BookingEvent struct {
	EventID    string `json:"event_id"`             // unique id for de-duplication
	Type       string `json:"type"`                 // one of the EventBooking* constants
	BookingID  uint64 `json:"booking_id"`
	RoomID     uint64 `json:"room_id"`
	RoomName   string `json:"room_name,omitempty"`  // resolved best-effort
	UserID     uint64 `json:"user_id"`              // booking owner
	UserEmail  string `json:"user_email,omitempty"` // resolved best-effort
	ActorID    uint64 `json:"actor_id"`             // who performed the change
	StartTime  string `json:"start_time"`           // RFC 3339 UTC
	EndTime    string `json:"end_time"`             // RFC 3339 UTC
	OccurredAt string `json:"occurred_at"`          // RFC 3339 UTC
}
