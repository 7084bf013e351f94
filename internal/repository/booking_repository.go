// Package repository contains data access logic for booking domain
// operations. This file implements the booking store: conflict-checked
// inserts and updates, deletes, and the read queries behind
// availability views. Overlap is always evaluated with the half-open
// predicate NOT (end_time <= windowStart OR start_time >= windowEnd),
// so bookings that merely touch at a boundary never conflict.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// BookingRepo manages persistence for bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, room_id, user_id, start_time, end_time, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.RoomID, &b.UserID, &b.StartTime, &b.EndTime, &b.CreatedAt, &b.UpdatedAt)
}

// FindByID retrieves a booking by its ID. It returns ErrBookingNotFound
// if there is no matching row.
func (r *BookingRepo) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create commits a new booking, refusing to double-book. The room row
// is locked with SELECT ... FOR UPDATE before the overlap check so that
// two concurrent creates for the same room serialize: the second one
// re-runs its check after the first has committed and sees the new row.
// Returns ErrRoomNotFound when the room does not exist and ErrOverlap
// when the window collides with a committed booking. On success the
// generated ID and DB-assigned timestamps are populated on b.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockRoom(ctx, tx, b.RoomID); err != nil {
		return err
	}
	n, err := countOverlapping(ctx, tx, b.RoomID, b.StartTime, b.EndTime, 0)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrOverlap
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (room_id, user_id, start_time, end_time) VALUES (?, ?, ?, ?)`,
		b.RoomID, b.UserID, b.StartTime, b.EndTime,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Read the row back so DB-assigned created_at/updated_at reach the caller.
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID), b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ApplyPatch updates only the provided fields of a booking, keeping the
// non-overlap guarantee. Inside one transaction it locks the booking
// row, resolves the effective room and window (patch fields falling
// back to stored values), calls check with the effective window so the
// caller can re-run its temporal validations against final values, then
// re-checks overlap excluding the booking's own id and writes the
// provided columns. Returns ErrBookingNotFound, ErrRoomNotFound,
// ErrOverlap, or whatever error check produced.
func (r *BookingRepo) ApplyPatch(ctx context.Context, id uint64, patch model.BookingPatch, check func(start, end time.Time) error) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var cur model.Booking
	const lockQ = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	if err := scanBooking(tx.QueryRowContext(ctx, lockQ, id), &cur); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	roomID, start, end := cur.RoomID, cur.StartTime, cur.EndTime
	if patch.RoomID != nil {
		roomID = *patch.RoomID
	}
	if patch.StartTime != nil {
		start = *patch.StartTime
	}
	if patch.EndTime != nil {
		end = *patch.EndTime
	}

	if check != nil {
		if err := check(start, end); err != nil {
			return nil, err
		}
	}
	// Lock the effective room even when unchanged: the overlap check
	// below must serialize against concurrent creates on that room.
	if err := lockRoom(ctx, tx, roomID); err != nil {
		return nil, err
	}
	n, err := countOverlapping(ctx, tx, roomID, start, end, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrOverlap
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if patch.RoomID != nil {
		set = append(set, "room_id = ?")
		args = append(args, *patch.RoomID)
	}
	if patch.StartTime != nil {
		set = append(set, "start_time = ?")
		args = append(args, *patch.StartTime)
	}
	if patch.EndTime != nil {
		set = append(set, "end_time = ?")
		args = append(args, *patch.EndTime)
	}
	set = append(set, "updated_at = UTC_TIMESTAMP(6)")
	args = append(args, id)
	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}

	var updated model.Booking
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, sel, id), &updated); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &updated, nil
}

// Delete removes a booking row outright. It returns ErrBookingNotFound
// when no row was deleted, which also covers the race where another
// request cancelled the same booking first.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// HasOverlap reports whether any booking on the room overlaps the
// half-open window [start, end). This is the read-only detector behind
// availability checks; writes re-run the same predicate inside their
// own transaction.
func (r *BookingRepo) HasOverlap(ctx context.Context, roomID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM bookings WHERE room_id = ? AND NOT (end_time <= ? OR start_time >= ?))`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, roomID, start, end).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListWithinWindow returns the room's bookings fully contained in the
// given window, ordered by start time ascending with id as tie-break.
// Bookings that begin before the window or end after it are excluded,
// which is what keeps cross-midnight bookings out of a single day's
// availability view.
func (r *BookingRepo) ListWithinWindow(ctx context.Context, roomID uint64, window model.Interval) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE room_id = ? AND start_time >= ? AND end_time <= ?
	           ORDER BY start_time ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, roomID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByUser returns all bookings made by the given user, ordered by
// start time ascending. When the user has none it returns an empty
// slice and nil error.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE user_id = ?
	           ORDER BY start_time ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// BookingWithRoom pairs a booking with display fields of its room, for
// listings that should not force callers into a second query.
type BookingWithRoom struct {
	model.Booking
	RoomName     string // rooms.name
	RoomLocation string // rooms.location
}

// ListByUserWithRooms returns the user's bookings joined with room
// display data, ordered by start time ascending.
func (r *BookingRepo) ListByUserWithRooms(ctx context.Context, userID uint64) ([]BookingWithRoom, error) {
	const q = `SELECT b.id, b.room_id, b.user_id, b.start_time, b.end_time, b.created_at, b.updated_at,
	                  r.name, r.location
	           FROM bookings b
	           JOIN rooms r ON r.id = b.room_id
	           WHERE b.user_id = ?
	           ORDER BY b.start_time ASC, b.id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []BookingWithRoom
	for rows.Next() {
		var br BookingWithRoom
		if err := rows.Scan(
			&br.ID, &br.RoomID, &br.UserID, &br.StartTime, &br.EndTime, &br.CreatedAt, &br.UpdatedAt,
			&br.RoomName, &br.RoomLocation,
		); err != nil {
			return nil, err
		}
		result = append(result, br)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// lockRoom takes a row lock on the room inside the transaction,
// serializing conflict checks per room. ErrRoomNotFound when the room
// does not exist.
func lockRoom(ctx context.Context, tx *sql.Tx, roomID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, roomID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	return err
}

// countOverlapping counts committed bookings on the room overlapping
// [start, end), optionally excluding one booking id. Must run inside
// the transaction that holds the room lock.
func countOverlapping(ctx context.Context, tx *sql.Tx, roomID uint64, start, end time.Time, excludeID uint64) (int, error) {
	q := `SELECT COUNT(*) FROM bookings WHERE room_id = ? AND NOT (end_time <= ? OR start_time >= ?)`
	args := []any{roomID, start, end}
	if excludeID != 0 {
		q = `SELECT COUNT(*) FROM bookings WHERE room_id = ? AND id <> ? AND NOT (end_time <= ? OR start_time >= ?)`
		args = []any{roomID, excludeID, start, end}
	}
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
