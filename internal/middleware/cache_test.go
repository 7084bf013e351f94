package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/meeting-room-reservation/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         30 * time.Second,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
}

func newCacheContext(target, routePath string, params map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(routePath)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return c
}

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Custom", "a")
	hdr.Add("X-Custom", "b")
	body := []byte(`{"rooms":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, []string{"a", "b"}, gotHdr.Values("X-Custom"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayload_Corrupt(t *testing.T) {
	_, _, _, ok := decodePayload(nil)
	assert.False(t, ok, "empty payload")

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok, "shorter than the fixed header")

	// Header length pointing past the end of the buffer.
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 255, 255, 255, 255})
	assert.False(t, ok, "header length overflow")

	payload, err := encodePayload(http.StatusOK, http.Header{"A": {"b"}}, nil)
	require.NoError(t, err)
	payload[8] = '!' // corrupt the header JSON
	_, _, _, ok = decodePayload(payload)
	assert.False(t, ok, "unparseable header")
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := testCacheConfig()

	a := cacheKeyFrom(cfg, newCacheContext("/v1/rooms?page=1", "/v1/rooms", nil))
	b := cacheKeyFrom(cfg, newCacheContext("/v1/rooms?page=1", "/v1/rooms", nil))
	c := cacheKeyFrom(cfg, newCacheContext("/v1/rooms?page=2", "/v1/rooms", nil))

	assert.Equal(t, a, b, "same route and query must produce the same key")
	assert.NotEqual(t, a, c, "query is part of the route_query key")
	assert.Contains(t, a, "cache:")
}

func TestCacheKeyFrom_RouteStrategyIgnoresQuery(t *testing.T) {
	cfg := testCacheConfig()
	cfg.KeyStrategy = "route"

	a := cacheKeyFrom(cfg, newCacheContext("/v1/rooms?page=1", "/v1/rooms", nil))
	b := cacheKeyFrom(cfg, newCacheContext("/v1/rooms?page=2", "/v1/rooms", nil))

	assert.Equal(t, a, b)
}

func TestScopeSets(t *testing.T) {
	cfg := testCacheConfig()

	testCases := []struct {
		name   string
		target string
		route  string
		params map[string]string
		want   []string
	}{
		{
			name:   "room detail",
			target: "/v1/rooms/7",
			route:  "/v1/rooms/:id",
			params: map[string]string{"id": "7"},
			want:   []string{"cache:scope:room:7"},
		},
		{
			name:   "room status",
			target: "/v1/rooms/7/status",
			route:  "/v1/rooms/:id/status",
			params: map[string]string{"id": "7"},
			want:   []string{"cache:scope:room:7"},
		},
		{
			name:   "room list",
			target: "/v1/rooms",
			route:  "/v1/rooms",
			want:   []string{"cache:scope:rooms"},
		},
		{
			name:   "room search",
			target: "/v1/search/rooms?name=apollo",
			route:  "/v1/search/rooms",
			want:   []string{"cache:scope:rooms"},
		},
		{
			name:   "unrelated route",
			target: "/healthz",
			route:  "/healthz",
			want:   nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := scopeSets(cfg, newCacheContext(tc.target, tc.route, tc.params))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewRedisCache_DisabledPassesThrough(t *testing.T) {
	cfg := testCacheConfig()
	cfg.Enabled = false

	mw := NewRedisCache(cfg, nil)
	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})

	c := newCacheContext("/v1/rooms", "/v1/rooms", nil)
	assert.NoError(t, handler(c))
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-Cache"), "disabled cache leaves no trace")
}

func TestNewInvalidator_NilClient(t *testing.T) {
	assert.Nil(t, NewInvalidator(testCacheConfig(), nil))

	// A nil Invalidator must be callable; handlers hold one unconditionally.
	var iv *Invalidator
	iv.InvalidateRoom(context.Background(), 7)
}
