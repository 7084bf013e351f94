// Package repository contains data access logic separated from HTTP
// handlers. This file defines repository methods for meeting rooms:
// CRUD, listing, search and the guarded delete that refuses to remove
// a room with upcoming bookings.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// RoomRepo encapsulates all database queries related to rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `id, name, capacity, location, equipment, created_at, updated_at`

// encodeEquipment serializes the equipment list for the text column.
// An empty list is stored as "[]" so reads never see NULL.
func encodeEquipment(eq []string) (string, error) {
	if len(eq) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(eq)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanRoom(row interface{ Scan(...any) error }, r *model.Room) error {
	var eq string
	if err := row.Scan(&r.ID, &r.Name, &r.Capacity, &r.Location, &eq, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return err
	}
	if eq == "" {
		r.Equipment = nil
		return nil
	}
	return json.Unmarshal([]byte(eq), &r.Equipment)
}

// isDuplicateKey reports whether the error is a MySQL duplicate-entry
// violation (error 1062), which the rooms table raises for name
// collisions.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// Create inserts a new room. On success the room's ID and DB-default
// timestamp fields are populated. Returns ErrRoomNameTaken when the
// name is already in use.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	eq, err := encodeEquipment(room.Equipment)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (name, capacity, location, equipment) VALUES (?, ?, ?, ?)`,
		room.Name, room.Capacity, room.Location, eq,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRoomNameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	const sel = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(r.db.QueryRowContext(ctx, sel, room.ID), room)
}

// GetByID retrieves a room by its ID. Returns ErrRoomNotFound when no
// row matches.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	var room model.Room
	if err := scanRoom(r.db.QueryRowContext(ctx, q, id), &room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// List returns all rooms ordered by name.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Room
	for rows.Next() {
		var room model.Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, err
		}
		result = append(result, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RoomSearchQuery defines filters and pagination for searching rooms.
type RoomSearchQuery struct {
	Name        string // substring match on room name
	Location    string // substring match on location
	MinCapacity int    // rooms with at least this many seats
	Equipment   string // rooms whose equipment list contains this item
	Page        int
	PageSize    int
}

// Search returns rooms matching the query plus the total match count
// for pagination.
func (r *RoomRepo) Search(ctx context.Context, q RoomSearchQuery) ([]model.Room, int64, error) {
	where := []string{}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Location != "" {
		where = append(where, "LOWER(location) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Location)+"%")
	}
	if q.MinCapacity > 0 {
		where = append(where, "capacity >= ?")
		args = append(args, q.MinCapacity)
	}
	if q.Equipment != "" {
		// Equipment is stored as a JSON array of strings; match the
		// quoted element to avoid substring false positives.
		where = append(where, "equipment LIKE ?")
		args = append(args, `%"`+q.Equipment+`"%`)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT ` + roomColumns + ` FROM rooms WHERE ` + cond + ` ORDER BY name ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, dataSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var result []model.Room
	for rows.Next() {
		var room model.Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, 0, err
		}
		result = append(result, room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// UpdateFields updates only the provided fields of a room and returns
// the fresh row. Returns ErrRoomNotFound when the room does not exist
// and ErrRoomNameTaken on a name collision.
func (r *RoomRepo) UpdateFields(ctx context.Context, id uint64, patch model.RoomPatch) (*model.Room, error) {
	set := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if patch.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Capacity != nil {
		set = append(set, "capacity = ?")
		args = append(args, *patch.Capacity)
	}
	if patch.Location != nil {
		set = append(set, "location = ?")
		args = append(args, *patch.Location)
	}
	if patch.Equipment != nil {
		eq, err := encodeEquipment(*patch.Equipment)
		if err != nil {
			return nil, err
		}
		set = append(set, "equipment = ?")
		args = append(args, eq)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set = append(set, "updated_at = UTC_TIMESTAMP(6)")
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, `UPDATE rooms SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrRoomNameTaken
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a room together with its reviews and past bookings.
// The deletion runs in a transaction so no partial cleanup occurs.
// Rooms with upcoming or in-progress bookings cannot be deleted; that
// case returns ErrConflict. Returns ErrRoomNotFound when the room does
// not exist.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
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

	if err := lockRoom(ctx, tx, id); err != nil {
		return err
	}
	var upcoming int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE room_id = ? AND end_time > UTC_TIMESTAMP(6)`, id,
	).Scan(&upcoming); err != nil {
		return err
	}
	if upcoming > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE rr FROM review_reports rr JOIN reviews rv ON rv.id = rr.review_id WHERE rv.room_id = ?`, id,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE room_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE room_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
