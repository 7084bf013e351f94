package router

// This file registers the privileged surface: room management, admin
// booking views, review moderation and the ops log tail. Each concern
// gets its own group so the role lists stay visible at the call site.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/handler"
	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// RegisterOps registers all privileged endpoints under /v1.
func RegisterOps(e *echo.Echo, rooms *handler.RoomHandler, rv *handler.ReviewHandler, ops *handler.OpsHandler, jwtSecret string) {
	// Room management: admins and facility managers.
	manage := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleFacilityManager),
	)
	manage.POST("/rooms", rooms.Create)
	manage.PATCH("/rooms/:id", rooms.Update)
	manage.PUT("/rooms/:id", rooms.Update) // alias for clients that use PUT
	manage.DELETE("/rooms/:id", rooms.Delete)

	// Booking views over other users: admins only.
	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.GET("/bookings/user/:id", ops.UserBookings)

	// Review moderation: admins and moderators.
	mod := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleModerator),
	)
	mod.GET("/reviews/reports", rv.ListReports)
	mod.POST("/reviews/:id/hide", rv.Hide)
	mod.POST("/reviews/:id/unhide", rv.Unhide)

	// Operational log tail: admins and auditors.
	audit := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleAuditor),
	)
	audit.GET("/ops/logs", ops.TailLogs)
}
