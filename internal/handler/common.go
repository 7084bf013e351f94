package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// getUserID extracts the user_id stored by the JWT middleware and converts
// it to uint64. Claims decoded from JSON arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// currentIdentity builds the acting identity from the claims the JWT
// middleware put into the context.
func currentIdentity(c echo.Context) (model.Identity, error) {
	uid, err := getUserID(c)
	if err != nil {
		return model.Identity{}, err
	}
	role, _ := c.Get("role").(string)
	return model.Identity{ID: uid, Role: role}, nil
}

// pathID parses a numeric route parameter such as :id.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
