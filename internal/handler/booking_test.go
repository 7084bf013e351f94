package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/service"
)

// newTestContext builds an Echo context backed by httptest, the way the
// handlers see requests in production.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, id model.Identity) {
	// JWT claims decode numbers as float64; mirror that here.
	c.Set("user_id", float64(id.ID))
	c.Set("role", id.Role)
}

func errorField(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestBookingError_StatusMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "malformed", err: service.ErrMalformed, wantStatus: http.StatusBadRequest},
		{name: "wrapped malformed", err: fmt.Errorf("%w: no fields to update", service.ErrMalformed), wantStatus: http.StatusBadRequest},
		{name: "invalid interval", err: service.ErrInvalidInterval, wantStatus: http.StatusBadRequest},
		{name: "past start", err: service.ErrPastStart, wantStatus: http.StatusBadRequest},
		{name: "forbidden", err: service.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "room not found", err: service.ErrRoomNotFound, wantStatus: http.StatusNotFound},
		{name: "booking not found", err: service.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "conflict", err: service.ErrSchedulingConflict, wantStatus: http.StatusConflict},
		{name: "infrastructure", err: errors.New("mysql is on fire"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodPost, "/v1/bookings", "")

			assert.NoError(t, bookingError(c, tc.err))
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestBookingError_DoesNotLeakInternals(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/bookings", "")

	assert.NoError(t, bookingError(c, errors.New("dial tcp 10.0.0.5:3306: timeout")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", errorField(t, rec))
}

func TestBookingHandler_Create_Unauthenticated(t *testing.T) {
	h := NewBookingHandler(&service.BookingService{}, nil)
	c, rec := newTestContext(http.MethodPost, "/v1/bookings", `{"room_id":3}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingHandler_Create_MissingFields(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "no room", body: `{"start_time":"2030-06-02T10:00:00Z","end_time":"2030-06-02T11:00:00Z"}`},
		{name: "no start", body: `{"room_id":3,"end_time":"2030-06-02T11:00:00Z"}`},
		{name: "no end", body: `{"room_id":3,"start_time":"2030-06-02T10:00:00Z"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewBookingHandler(&service.BookingService{}, nil)
			c, rec := newTestContext(http.MethodPost, "/v1/bookings", tc.body)
			authenticate(c, model.Identity{ID: 7, Role: model.RoleRegular})

			assert.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestBookingHandler_Create_MixedTimestampShapes(t *testing.T) {
	h := NewBookingHandler(&service.BookingService{}, nil)
	body := `{"room_id":3,"start_time":"2030-06-02T10:00:00Z","end_time":"2030-06-02T11:00:00"}`
	c, rec := newTestContext(http.MethodPost, "/v1/bookings", body)
	authenticate(c, model.Identity{ID: 7, Role: model.RoleRegular})

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorField(t, rec), "mixed timestamp shapes")
}

func TestBookingHandler_Create_MalformedBody(t *testing.T) {
	h := NewBookingHandler(&service.BookingService{}, nil)
	c, rec := newTestContext(http.MethodPost, "/v1/bookings", `{"room_id":"three"}`)
	authenticate(c, model.Identity{ID: 7, Role: model.RoleRegular})

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingHandler_Update_InvalidID(t *testing.T) {
	h := NewBookingHandler(&service.BookingService{}, nil)
	c, rec := newTestContext(http.MethodPatch, "/v1/bookings/abc", `{}`)
	authenticate(c, model.Identity{ID: 7, Role: model.RoleRegular})
	c.SetParamNames("id")
	c.SetParamValues("abc")

	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserID(t *testing.T) {
	testCases := []struct {
		name    string
		value   interface{}
		want    uint64
		wantErr bool
	}{
		{name: "float64 claim", value: float64(7), want: 7},
		{name: "uint64", value: uint64(7), want: 7},
		{name: "int", value: 7, want: 7},
		{name: "int64", value: int64(7), want: 7},
		{name: "numeric string", value: "7", want: 7},
		{name: "bad string", value: "seven", wantErr: true},
		{name: "missing", value: nil, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/v1/me", "")
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}

			got, err := getUserID(c)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
