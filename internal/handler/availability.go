package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

type intervalResp struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toIntervalResps(ivs []model.Interval) []intervalResp {
	out := make([]intervalResp, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, intervalResp{
			StartTime: iv.Start.UTC().Format(time.RFC3339),
			EndTime:   iv.End.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// CheckAvailability reports whether the room is free for the queried
// window. Past windows are fine to ask about; only booking them is
// rejected.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	startRaw, endRaw := c.QueryParam("start"), c.QueryParam("end")
	if startRaw == "" || endRaw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start and end required"})
	}
	start, end, err := parseWindow(startRaw, endRaw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	free, err := h.Svc.CheckAvailability(c.Request().Context(), roomID, start, end)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":    roomID,
		"start_time": start.UTC().Format(time.RFC3339),
		"end_time":   end.UTC().Format(time.RFC3339),
		"available":  free,
	})
}

// RoomStatus serves the day view: the room, its bookings for the day, the
// derived free intervals and whether the room is free right now. The
// ?date= query selects the day, defaulting to today.
func (h *BookingHandler) RoomStatus(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	day, err := parseDay(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	st, err := h.Svc.RoomStatusFor(c.Request().Context(), roomID, day)
	if err != nil {
		return bookingError(c, err)
	}
	bookings := make([]bookingResp, 0, len(st.Bookings))
	for i := range st.Bookings {
		bookings = append(bookings, toBookingResp(&st.Bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room":           toRoomResp(st.Room),
		"date":           st.Day.Start.Format("2006-01-02"),
		"bookings":       bookings,
		"free_intervals": toIntervalResps(st.FreeIntervals),
		"available_now":  st.AvailableNow,
	})
}
