package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/meeting-room-reservation/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		if cw.limit <= 0 {
			cw.buf.Write(b)
		} else if remain > 0 {
			if int64(len(b)) <= remain {
				cw.buf.Write(b)
			} else {
				cw.buf.Write(b[:remain])
			}
		}
		cw.size += int64(len(b))
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable cache key honoring prefix/strategy.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	method := r.Method
	route := c.Path()
	query := r.URL.RawQuery

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = append(parts, "route", route)
	case "method_route":
		parts = append(parts, "method", method, "route", route)
	case "method_route_query":
		parts = append(parts, "method", method, "route", route, "q", query)
	default: // "route_query"
		parts = append(parts, "route", route, "q", query)
	}

	tail := strings.Join(parts[1:], ":")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", parts[0], sum[:])
}

// scopeSets names the Redis sets a cached response registers in so room
// writes can evict it later. Per-room pages (detail, status, availability,
// reviews) land in room:<id>; list and search pages land in rooms.
func scopeSets(cfg config.CacheConfig, c echo.Context) []string {
	route := c.Path()
	switch {
	case strings.HasPrefix(route, "/v1/rooms/:id"):
		return []string{fmt.Sprintf("%s:scope:room:%s", cfg.Prefix, c.Param("id"))}
	case strings.HasPrefix(route, "/v1/rooms"), strings.HasPrefix(route, "/v1/search/rooms"):
		return []string{cfg.Prefix + ":scope:rooms"}
	}
	return nil
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	total := 4 + 4 + len(hdrJSON) + len(body)
	out := make([]byte, total)
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if 8+hlen > len(bs) || hlen < 0 {
		return 0, nil, nil, false
	}
	var hdr http.Header
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	} else {
		hdr = make(http.Header)
	}
	body = bs[8+hlen:]
	return status, hdr, body, true
}

// NewRedisCache caches whole responses, headers included, so clients see
// byte-identical output on a hit. Only configured methods are cached and
// only 200 responses are stored. Each stored key is also registered in its
// scope set so Invalidator can evict it after a write.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil && len(bs) >= 8 {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						// Echo recomputes Content-Length on write.
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					vv := make([]string, len(vals))
					copy(vv, vals)
					hdr[k] = vv
				}
				body := cw.buf.Bytes()
				if maxBody > 0 && int64(len(body)) > maxBody {
					body = body[:maxBody]
				}
				if payload, err := encodePayload(cw.status, hdr, body); err == nil {
					bg := context.Background()
					_ = rdb.SetEx(bg, key, payload, ttl).Err()
					for _, set := range scopeSets(cfg, c) {
						_ = rdb.SAdd(bg, set, key).Err()
						// Outlive the entries so a set never forgets live keys.
						_ = rdb.Expire(bg, set, 2*ttl).Err()
					}
				}
			}
			return nil
		}
	}
}

// Invalidator evicts cached room pages after a write. A nil *Invalidator is
// a no-op so callers can hold one unconditionally even when Redis is down.
type Invalidator struct {
	rdb    *redis.Client
	prefix string
}

// NewInvalidator returns an Invalidator over the same prefix the cache
// middleware writes under, or nil when no Redis client is available.
func NewInvalidator(cfg config.CacheConfig, rdb *redis.Client) *Invalidator {
	if rdb == nil {
		return nil
	}
	return &Invalidator{rdb: rdb, prefix: cfg.Prefix}
}

// InvalidateRoom drops every cached response scoped to the given room plus
// the room list pages. Entries for other rooms stay untouched.
func (iv *Invalidator) InvalidateRoom(ctx context.Context, roomID uint64) {
	if iv == nil {
		return
	}
	sets := []string{
		fmt.Sprintf("%s:scope:room:%d", iv.prefix, roomID),
		iv.prefix + ":scope:rooms",
	}
	for _, set := range sets {
		keys, err := iv.rdb.SMembers(ctx, set).Result()
		if err == nil && len(keys) > 0 {
			_ = iv.rdb.Del(ctx, keys...).Err()
		}
		_ = iv.rdb.Del(ctx, set).Err()
	}
}
