package model

import "time"

// Room is a bookable meeting room. Rooms are referenced by bookings
// but managed independently; the booking engine only ever checks that
// a referenced room exists.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique human-readable name (e.g. "Apollo").
//  Capacity  – number of seats.
//  Location  – free-form location hint (floor, wing, building).
//  Equipment – list of installed equipment; stored as a JSON array in
//              a text column.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64    // rooms.id
	Name      string    // rooms.name
	Capacity  int       // rooms.capacity
	Location  string    // rooms.location
	Equipment []string  // rooms.equipment (JSON-encoded text)
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}

// RoomPatch carries the optional fields of a partial room update.
// Nil fields keep their stored values.
type RoomPatch struct {
	Name      *string
	Capacity  *int
	Location  *string
	Equipment *[]string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p RoomPatch) IsEmpty() bool {
	return p.Name == nil && p.Capacity == nil && p.Location == nil && p.Equipment == nil
}
