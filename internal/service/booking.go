package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/policy"
	"github.com/iliyamo/meeting-room-reservation/internal/queue"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// BookingStore is the persistence boundary of the booking engine. The
// MySQL implementation lives in the repository package; tests provide
// mocks. Create and ApplyPatch must run their overlap check and write
// in one transaction serialized per room, so that two simultaneous
// requests for overlapping windows can never both commit.
type BookingStore interface {
	FindByID(ctx context.Context, id uint64) (*model.Booking, error)
	Create(ctx context.Context, b *model.Booking) error
	ApplyPatch(ctx context.Context, id uint64, patch model.BookingPatch, check func(start, end time.Time) error) (*model.Booking, error)
	Delete(ctx context.Context, id uint64) error
	HasOverlap(ctx context.Context, roomID uint64, start, end time.Time) (bool, error)
	ListWithinWindow(ctx context.Context, roomID uint64, window model.Interval) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListByUserWithRooms(ctx context.Context, userID uint64) ([]repository.BookingWithRoom, error)
}

// RoomDirectory answers room existence and display lookups.
type RoomDirectory interface {
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
}

// UserDirectory resolves requester contact data for notifications.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Notifier delivers booking events to the message broker. Publishing
// failures are logged and swallowed; they never fail the booking.
type Notifier interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// BookingService orchestrates create, update, cancel and the read-only
// availability operations. All methods are safe for concurrent use.
type BookingService struct {
	store    BookingStore
	rooms    RoomDirectory
	users    UserDirectory
	gate     policy.Gate
	notifier Notifier // nil disables event publishing
}

// NewBookingService wires the booking engine. notifier may be nil when
// the broker is not configured.
func NewBookingService(store BookingStore, rooms RoomDirectory, users UserDirectory, gate policy.Gate, notifier Notifier) *BookingService {
	if store == nil || rooms == nil || users == nil || gate == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{store: store, rooms: rooms, users: users, gate: gate, notifier: notifier}
}

// validateWindow enforces the temporal rules shared by create and
// update: the window must be well-formed and must start strictly in
// the future at the moment of validation.
func (s *BookingService) validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidInterval
	}
	if !start.After(time.Now().UTC()) {
		return ErrPastStart
	}
	return nil
}

// Create validates and commits a new booking for the actor.
// Validation order: actor may hold bookings, window well-formed, start
// in the future, room exists, no overlap. The room-existence and
// overlap checks happen atomically inside the store commit.
func (s *BookingService) Create(ctx context.Context, actor model.Identity, roomID uint64, start, end time.Time) (*model.Booking, error) {
	if !s.gate.Allow(actor, policy.ActionCreateBooking) {
		return nil, ErrForbidden
	}
	if err := s.validateWindow(start, end); err != nil {
		return nil, err
	}
	b := &model.Booking{
		RoomID:    roomID,
		UserID:    actor.ID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, mapStoreErr(err)
	}
	s.publish(ctx, queue.EventBookingCreated, b, actor)
	return b, nil
}

// Update applies a partial change to a booking. Only the original
// requester or a privileged actor may update; unspecified fields keep
// their stored values. All create-path validations re-run against the
// effective final values, with the booking's own window excluded from
// the overlap check.
func (s *BookingService) Update(ctx context.Context, actor model.Identity, bookingID uint64, patch model.BookingPatch) (*model.Booking, error) {
	existing, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if existing.UserID != actor.ID && !s.gate.Allow(actor, policy.ActionManageAnyBooking) {
		return nil, ErrForbidden
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrMalformed)
	}
	updated, err := s.store.ApplyPatch(ctx, bookingID, patch, s.validateWindow)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	s.publish(ctx, queue.EventBookingUpdated, updated, actor)
	return updated, nil
}

// Cancel hard-deletes a booking. Only the original requester or a
// privileged actor may cancel. A concurrent cancellation surfacing as
// zero deleted rows reports ErrBookingNotFound.
func (s *BookingService) Cancel(ctx context.Context, actor model.Identity, bookingID uint64) error {
	existing, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return mapStoreErr(err)
	}
	if existing.UserID != actor.ID && !s.gate.Allow(actor, policy.ActionManageAnyBooking) {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, bookingID); err != nil {
		return mapStoreErr(err)
	}
	s.publish(ctx, queue.EventBookingCancelled, existing, actor)
	return nil
}

// Get returns a single booking. The requester may read their own;
// anyone holding the view-any or manage-any privilege may read all.
func (s *BookingService) Get(ctx context.Context, actor model.Identity, bookingID uint64) (*model.Booking, error) {
	b, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if b.UserID != actor.ID &&
		!s.gate.Allow(actor, policy.ActionViewAnyBookings) &&
		!s.gate.Allow(actor, policy.ActionManageAnyBooking) {
		return nil, ErrForbidden
	}
	return b, nil
}

// CheckAvailability reports whether the room is free for the whole
// window. Past ranges are allowed here: this is a read-only query and
// analytics over history is a supported use.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID uint64, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, ErrInvalidInterval
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return false, mapStoreErr(err)
	}
	conflict, err := s.store.HasOverlap(ctx, roomID, start.UTC(), end.UTC())
	if err != nil {
		return false, fmt.Errorf("availability check: %w", err)
	}
	return !conflict, nil
}

// ComputeFreeIntervals returns the room's free windows for the
// calendar day containing the given instant, recomputed fresh on
// every call.
func (s *BookingService) ComputeFreeIntervals(ctx context.Context, roomID uint64, day time.Time) ([]model.Interval, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, mapStoreErr(err)
	}
	window := model.DayWindow(day)
	bookings, err := s.store.ListWithinWindow(ctx, roomID, window)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return FreeIntervals(window, bookings), nil
}

// RoomStatus aggregates a room's schedule for one day: its bookings,
// the derived free intervals and whether the room is free at this
// moment.
type RoomStatus struct {
	Room          *model.Room
	Day           model.Interval
	Bookings      []model.Booking
	FreeIntervals []model.Interval
	AvailableNow  bool
}

// RoomStatusFor builds the day view served by the room status
// endpoint. Like ComputeFreeIntervals it only counts bookings fully
// inside the day's window.
func (s *BookingService) RoomStatusFor(ctx context.Context, roomID uint64, day time.Time) (*RoomStatus, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	window := model.DayWindow(day)
	bookings, err := s.store.ListWithinWindow(ctx, roomID, window)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	now := time.Now().UTC()
	availableNow := true
	for _, b := range bookings {
		if b.Interval().Contains(now) {
			availableNow = false
			break
		}
	}
	return &RoomStatus{
		Room:          room,
		Day:           window,
		Bookings:      bookings,
		FreeIntervals: FreeIntervals(window, bookings),
		AvailableNow:  availableNow,
	}, nil
}

// MyBookings lists the actor's own bookings.
func (s *BookingService) MyBookings(ctx context.Context, actor model.Identity) ([]model.Booking, error) {
	bookings, err := s.store.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// UserBookings lists another user's bookings joined with room display
// data. Only the user themselves or an actor with the view-any
// privilege may read them.
func (s *BookingService) UserBookings(ctx context.Context, actor model.Identity, userID uint64) ([]repository.BookingWithRoom, error) {
	if actor.ID != userID && !s.gate.Allow(actor, policy.ActionViewAnyBookings) {
		return nil, ErrForbidden
	}
	bookings, err := s.store.ListByUserWithRooms(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// publish emits a booking event, enriching it with room and requester
// display data. Every failure in here is logged and dropped: event
// delivery must never fail or roll back a committed booking.
func (s *BookingService) publish(ctx context.Context, eventType string, b *model.Booking, actor model.Identity) {
	if s.notifier == nil {
		return
	}
	ev := queue.BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		ActorID:    actor.ID,
		StartTime:  b.StartTime.UTC().Format(time.RFC3339),
		EndTime:    b.EndTime.UTC().Format(time.RFC3339),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if room, err := s.rooms.GetByID(ctx, b.RoomID); err == nil {
		ev.RoomName = room.Name
	} else {
		log.Printf("booking event: room %d lookup failed: %v", b.RoomID, err)
	}
	if user, err := s.users.GetByID(ctx, b.UserID); err == nil {
		ev.UserEmail = user.Email
	} else {
		log.Printf("booking event: user %d lookup failed: %v", b.UserID, err)
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		log.Printf("booking event: publish %s for booking %d failed: %v", eventType, b.ID, err)
	}
}

// mapStoreErr translates storage sentinels into the domain taxonomy.
// Validation errors surfaced through the store's check callback and
// unknown infrastructure failures pass through untouched.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return ErrRoomNotFound
	case errors.Is(err, repository.ErrBookingNotFound):
		return ErrBookingNotFound
	case errors.Is(err, repository.ErrOverlap):
		return ErrSchedulingConflict
	}
	return err
}
