package handler

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/service"
)

// OpsHandler serves the operational surface: privileged booking views and
// the notification log tail.
type OpsHandler struct {
	Svc     *service.BookingService
	LogPath string
}

func NewOpsHandler(svc *service.BookingService, logPath string) *OpsHandler {
	if svc == nil {
		panic("nil service passed to NewOpsHandler")
	}
	return &OpsHandler{Svc: svc, LogPath: logPath}
}

// UserBookings lists one user's bookings enriched with room display data.
func (h *OpsHandler) UserBookings(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	bookings, err := h.Svc.UserBookings(c.Request().Context(), actor, userID)
	if err != nil {
		return bookingError(c, err)
	}
	type userBookingResp struct {
		bookingResp
		RoomName     string `json:"room_name"`
		RoomLocation string `json:"room_location"`
	}
	out := make([]userBookingResp, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		out = append(out, userBookingResp{
			bookingResp:  toBookingResp(&b.Booking),
			RoomName:     b.RoomName,
			RoomLocation: b.RoomLocation,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": userID, "bookings": out, "count": len(out)})
}

// TailLogs returns the last N lines of the booking notification log.
// ?lines= selects N, default 100, capped at 1000. A missing log file is
// an empty result, not an error: the consumer may simply not have written
// anything yet.
func (h *OpsHandler) TailLogs(c echo.Context) error {
	n := 100
	if v := c.QueryParam("lines"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lines"})
		}
		n = parsed
	}
	if n > 1000 {
		n = 1000
	}

	data, err := os.ReadFile(h.LogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(http.StatusOK, echo.Map{"lines": []string{}, "count": 0})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read log failed"})
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = lines[:0]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return c.JSON(http.StatusOK, echo.Map{"lines": lines, "count": len(lines)})
}
