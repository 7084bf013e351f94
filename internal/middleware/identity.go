package middleware

// identity.go holds helpers shared by the cache and rate limit middleware.
// Both key their Redis entries per user, so both need the caller identity
// without caring whether the request was authenticated at all.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the context populated by JWTAuth.
// Numeric subjects arrive as float64 after JSON decoding. It returns
// "guest" when no user is authenticated.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	}
	return "guest"
}
