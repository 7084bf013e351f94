// Package policy decides what an identity may do. The rest of the
// service asks one question through one interface instead of calling
// role-specific helper functions at every call site.
package policy

import "github.com/iliyamo/meeting-room-reservation/internal/model"

// Action names a capability the core may ask about.
type Action string

const (
	// ActionCreateBooking allows holding bookings of one's own.
	ActionCreateBooking Action = "booking.create"
	// ActionManageAnyBooking allows updating or cancelling bookings
	// owned by other users.
	ActionManageAnyBooking Action = "booking.manage_any"
	// ActionViewAnyBookings allows listing another user's bookings.
	ActionViewAnyBookings Action = "booking.view_any"
	// ActionManageRooms allows creating, updating and deleting rooms.
	ActionManageRooms Action = "room.manage"
	// ActionModerateReviews allows hiding reviews and reading reports.
	ActionModerateReviews Action = "review.moderate"
	// ActionViewOpsLogs allows reading the operational booking log.
	ActionViewOpsLogs Action = "ops.logs"
)

// Gate is the single authorization predicate the booking core calls.
// Implementations must be safe for concurrent use.
type Gate interface {
	Allow(actor model.Identity, action Action) bool
}

// RoleGate authorizes by a fixed role-to-action table. It is the
// production Gate; tests substitute their own.
type RoleGate struct {
	allowed map[Action]map[string]struct{}
}

// NewRoleGate builds the standard role table:
//
//	booking.create     – every human role (service accounts excluded)
//	booking.manage_any – admin
//	booking.view_any   – admin
//	room.manage        – admin, facility_manager
//	review.moderate    – admin, moderator
//	ops.logs           – admin, auditor
func NewRoleGate() *RoleGate {
	grant := func(roles ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(roles))
		for _, r := range roles {
			m[r] = struct{}{}
		}
		return m
	}
	return &RoleGate{allowed: map[Action]map[string]struct{}{
		ActionCreateBooking: grant(
			model.RoleRegular, model.RoleAdmin, model.RoleFacilityManager,
			model.RoleModerator, model.RoleAuditor,
		),
		ActionManageAnyBooking: grant(model.RoleAdmin),
		ActionViewAnyBookings:  grant(model.RoleAdmin),
		ActionManageRooms:      grant(model.RoleAdmin, model.RoleFacilityManager),
		ActionModerateReviews:  grant(model.RoleAdmin, model.RoleModerator),
		ActionViewOpsLogs:      grant(model.RoleAdmin, model.RoleAuditor),
	}}
}

// Allow reports whether the actor's role carries the action.
func (g *RoleGate) Allow(actor model.Identity, action Action) bool {
	roles, ok := g.allowed[action]
	if !ok {
		return false
	}
	_, ok = roles[actor.Role]
	return ok
}
