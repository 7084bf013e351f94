package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints: the room
// catalog, per-room day status, availability checks and visible reviews.
// The cache middleware decorates the whole group; these are the only
// routes whose responses are cached.
func RegisterPublic(e *echo.Echo, rooms *handler.RoomHandler, bookings *handler.BookingHandler, reviews *handler.ReviewHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/rooms", rooms.List)
	g.GET("/rooms/:id", rooms.Get)
	g.GET("/rooms/:id/status", bookings.RoomStatus)
	g.GET("/rooms/:id/availability", bookings.CheckAvailability)
	g.GET("/rooms/:id/reviews", reviews.ListByRoom)
	g.GET("/search/rooms", rooms.Search)
}
