package middleware

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestAudit tags every request with an ID and writes paired audit lines
// around the handler. An inbound X-Request-ID is kept so IDs stay stable
// across proxies; otherwise a fresh UUID is assigned. The ID is echoed in
// the response header and stored in the context under "request_id".
//
// The user on the RESPONSE line comes from JWTAuth, which runs inside this
// middleware, so unauthenticated and rejected requests log as "guest".
func RequestAudit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set("request_id", rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			req := c.Request()
			start := time.Now()
			log.Printf("REQUEST %s %s id=%s ip=%s", req.Method, req.URL.Path, rid, c.RealIP())

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			log.Printf("RESPONSE %s %s id=%s status=%d duration_ms=%d user=%s",
				req.Method, req.URL.Path, rid, c.Response().Status,
				time.Since(start).Milliseconds(), userID(c))
			return err
		}
	}
}
