package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/service"
)

// BookingHandler adapts the booking service to HTTP. It owns no scheduling
// rules: requests are parsed here, outcomes map to statuses here, and
// everything in between happens in the service.
type BookingHandler struct {
	Svc *service.BookingService
	Inv *middleware.Invalidator
}

func NewBookingHandler(svc *service.BookingService, inv *middleware.Invalidator) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Inv: inv}
}

// ----- DTOs -----

type createBookingReq struct {
	RoomID    uint64 `json:"room_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type updateBookingReq struct {
	RoomID    *uint64 `json:"room_id"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type bookingResp struct {
	ID        uint64 `json:"id"`
	RoomID    uint64 `json:"room_id"`
	UserID    uint64 `json:"user_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:        b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		StartTime: b.StartTime.UTC().Format(time.RFC3339),
		EndTime:   b.EndTime.UTC().Format(time.RFC3339),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// bookingError maps service sentinels onto HTTP statuses. Anything
// unrecognized is infrastructure and becomes a 500.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrMalformed),
		errors.Is(err, service.ErrInvalidInterval),
		errors.Is(err, service.ErrPastStart):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, service.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, service.ErrSchedulingConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "scheduling conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// Create books a room for the caller.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == 0 || req.StartTime == "" || req.EndTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id, start_time and end_time required"})
	}
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	b, err := h.Svc.Create(c.Request().Context(), actor, req.RoomID, start, end)
	if err != nil {
		return bookingError(c, err)
	}
	h.Inv.InvalidateRoom(c.Request().Context(), b.RoomID)
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Get returns a single booking visible to the caller.
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Update applies a partial change to a booking. Absent fields keep their
// stored values.
func (h *BookingHandler) Update(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	patch := model.BookingPatch{RoomID: req.RoomID}
	switch {
	case req.StartTime != nil && req.EndTime != nil:
		start, end, err := parseWindow(*req.StartTime, *req.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		patch.StartTime, patch.EndTime = &start, &end
	case req.StartTime != nil:
		start, _, err := parseTimestamp(*req.StartTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		patch.StartTime = &start
	case req.EndTime != nil:
		end, _, err := parseTimestamp(*req.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		patch.EndTime = &end
	}

	ctx := c.Request().Context()

	// When the booking moves rooms the source room's cached pages go stale
	// too, so remember it before the write.
	var prevRoom uint64
	if req.RoomID != nil {
		if prev, err := h.Svc.Get(ctx, actor, id); err == nil {
			prevRoom = prev.RoomID
		}
	}

	b, err := h.Svc.Update(ctx, actor, id, patch)
	if err != nil {
		return bookingError(c, err)
	}
	h.Inv.InvalidateRoom(ctx, b.RoomID)
	if prevRoom != 0 && prevRoom != b.RoomID {
		h.Inv.InvalidateRoom(ctx, prevRoom)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Cancel deletes a booking.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	var roomID uint64
	if b, err := h.Svc.Get(ctx, actor, id); err == nil {
		roomID = b.RoomID
	}
	if err := h.Svc.Cancel(ctx, actor, id); err != nil {
		return bookingError(c, err)
	}
	if roomID != 0 {
		h.Inv.InvalidateRoom(ctx, roomID)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyBookings lists the caller's own bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Svc.MyBookings(c.Request().Context(), actor)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "count": len(out)})
}
