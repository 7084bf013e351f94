package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/meeting-room-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func authContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "regular", 15)
	require.NoError(t, err)

	c, _ := authContext("Bearer " + tok.Token)
	called := false
	handler := JWTAuth(testSecret)(func(c echo.Context) error {
		called = true
		return nil
	})

	assert.NoError(t, handler(c))
	assert.True(t, called)
	assert.Equal(t, float64(7), c.Get("user_id"), "JSON claims decode numbers as float64")
	assert.Equal(t, "regular", c.Get("role"))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	c, rec := authContext("")
	handler := JWTAuth(testSecret)(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_NotBearer(t *testing.T) {
	c, rec := authContext("Basic dXNlcjpwYXNz")
	handler := JWTAuth(testSecret)(func(c echo.Context) error { return nil })

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("some-other-secret", 7, "regular", 15)
	require.NoError(t, err)

	c, rec := authContext("Bearer " + tok.Token)
	handler := JWTAuth(testSecret)(func(c echo.Context) error { return nil })

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "regular", -5)
	require.NoError(t, err)

	c, rec := authContext("Bearer " + tok.Token)
	handler := JWTAuth(testSecret)(func(c echo.Context) error { return nil })

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_GarbageToken(t *testing.T) {
	c, rec := authContext("Bearer definitely.not.a.jwt")
	handler := JWTAuth(testSecret)(func(c echo.Context) error { return nil })

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	testCases := []struct {
		name     string
		role     interface{}
		allowed  []string
		wantPass bool
	}{
		{name: "role allowed", role: "admin", allowed: []string{"admin", "facility_manager"}, wantPass: true},
		{name: "second role allowed", role: "facility_manager", allowed: []string{"admin", "facility_manager"}, wantPass: true},
		{name: "role not listed", role: "regular", allowed: []string{"admin"}, wantPass: false},
		{name: "role missing", role: nil, allowed: []string{"admin"}, wantPass: false},
		{name: "role wrong type", role: 42, allowed: []string{"admin"}, wantPass: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := authContext("")
			if tc.role != nil {
				c.Set("role", tc.role)
			}

			passed := false
			handler := RequireRole(tc.allowed...)(func(c echo.Context) error {
				passed = true
				return nil
			})

			assert.NoError(t, handler(c))
			assert.Equal(t, tc.wantPass, passed)
			if !tc.wantPass {
				assert.Equal(t, http.StatusForbidden, rec.Code)
			}
		})
	}
}

func TestUserID(t *testing.T) {
	testCases := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "string subject", value: "42", want: "42"},
		{name: "float64 claim", value: float64(9), want: "9"},
		{name: "uint64", value: uint64(7), want: "7"},
		{name: "empty string", value: "", want: "guest"},
		{name: "unauthenticated", value: nil, want: "guest"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := authContext("")
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			assert.Equal(t, tc.want, userID(c))
		})
	}
}

func TestRequestAudit_KeepsInboundID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderXRequestID, "upstream-id-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestAudit()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, "upstream-id-1", c.Get("request_id"))
	assert.Equal(t, "upstream-id-1", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestAudit_AssignsID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestAudit()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	assert.NoError(t, handler(c))
	rid, _ := c.Get("request_id").(string)
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, rec.Header().Get(echo.HeaderXRequestID))
}
