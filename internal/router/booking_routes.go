package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/handler"
	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
)

// RegisterBookings registers the endpoints any authenticated user may
// call: the booking lifecycle, their own booking list and the review
// write surface. Whether a caller may actually hold a booking is decided
// by the policy gate inside the service, not by the router; a service
// account passes this group and is refused there.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, rv *handler.ReviewHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(allRoles()...),
	)

	g.POST("/bookings", b.Create)
	g.GET("/my-bookings", b.MyBookings)
	g.GET("/bookings/:id", b.Get)
	g.PATCH("/bookings/:id", b.Update)
	g.DELETE("/bookings/:id", b.Cancel)

	g.POST("/rooms/:id/reviews", rv.Create)
	g.PATCH("/reviews/:id", rv.Update)
	g.DELETE("/reviews/:id", rv.Delete)
	g.POST("/reviews/:id/report", rv.Report)
}
