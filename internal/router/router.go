package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/handler"
	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// RegisterRoutes registers routes that need no authentication at all.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the authentication surface. Register, login and the
// token exchanges live under /v1/auth and need no session; /v1/me sits in
// a protected group so the JWT middleware populates the caller identity.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works from a bearer token or a refresh token in the body, so
	// it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(allRoles()...),
	)
	auth.GET("/me", a.Me)
}

// allRoles lists every role the system knows. Authenticated-but-otherwise
// unrestricted groups accept all of them; finer checks happen in the
// policy gate or per-handler.
func allRoles() []string {
	return []string{
		model.RoleRegular,
		model.RoleAdmin,
		model.RoleFacilityManager,
		model.RoleModerator,
		model.RoleAuditor,
		model.RoleServiceAccount,
	}
}
