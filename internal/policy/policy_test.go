package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

func TestRoleGate_Allow(t *testing.T) {
	gate := NewRoleGate()

	testCases := []struct {
		role   string
		action Action
		want   bool
	}{
		{model.RoleRegular, ActionCreateBooking, true},
		{model.RoleRegular, ActionManageAnyBooking, false},
		{model.RoleRegular, ActionViewAnyBookings, false},
		{model.RoleRegular, ActionManageRooms, false},
		{model.RoleRegular, ActionModerateReviews, false},
		{model.RoleRegular, ActionViewOpsLogs, false},

		{model.RoleAdmin, ActionCreateBooking, true},
		{model.RoleAdmin, ActionManageAnyBooking, true},
		{model.RoleAdmin, ActionViewAnyBookings, true},
		{model.RoleAdmin, ActionManageRooms, true},
		{model.RoleAdmin, ActionModerateReviews, true},
		{model.RoleAdmin, ActionViewOpsLogs, true},

		{model.RoleFacilityManager, ActionCreateBooking, true},
		{model.RoleFacilityManager, ActionManageRooms, true},
		{model.RoleFacilityManager, ActionManageAnyBooking, false},
		{model.RoleFacilityManager, ActionModerateReviews, false},

		{model.RoleModerator, ActionCreateBooking, true},
		{model.RoleModerator, ActionModerateReviews, true},
		{model.RoleModerator, ActionManageRooms, false},
		{model.RoleModerator, ActionViewOpsLogs, false},

		{model.RoleAuditor, ActionCreateBooking, true},
		{model.RoleAuditor, ActionViewOpsLogs, true},
		{model.RoleAuditor, ActionManageRooms, false},
		{model.RoleAuditor, ActionManageAnyBooking, false},

		{model.RoleServiceAccount, ActionCreateBooking, false},
		{model.RoleServiceAccount, ActionManageAnyBooking, false},
		{model.RoleServiceAccount, ActionManageRooms, false},
		{model.RoleServiceAccount, ActionViewOpsLogs, false},
	}

	for _, tc := range testCases {
		got := gate.Allow(model.Identity{ID: 1, Role: tc.role}, tc.action)
		assert.Equal(t, tc.want, got, "%s / %s", tc.role, tc.action)
	}
}

func TestRoleGate_UnknownRoleDenied(t *testing.T) {
	gate := NewRoleGate()

	assert.False(t, gate.Allow(model.Identity{ID: 1, Role: "superuser"}, ActionCreateBooking))
	assert.False(t, gate.Allow(model.Identity{ID: 1, Role: ""}, ActionManageRooms))
}

func TestRoleGate_UnknownActionDenied(t *testing.T) {
	gate := NewRoleGate()

	assert.False(t, gate.Allow(model.Identity{ID: 1, Role: model.RoleAdmin}, Action("booking.teleport")))
}
