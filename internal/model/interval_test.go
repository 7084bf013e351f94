package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// at builds an instant on a fixed reference day in UTC.
func at(h, m int) time.Time {
	return time.Date(2030, time.June, 2, h, m, 0, 0, time.UTC)
}

func TestInterval_IsValid(t *testing.T) {
	assert.True(t, NewInterval(at(9, 0), at(10, 0)).IsValid())
	assert.False(t, NewInterval(at(10, 0), at(10, 0)).IsValid(), "zero-length interval")
	assert.False(t, NewInterval(at(11, 0), at(10, 0)).IsValid(), "inverted interval")
}

func TestInterval_Overlaps(t *testing.T) {
	testCases := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "disjoint",
			a:    NewInterval(at(9, 0), at(10, 0)),
			b:    NewInterval(at(11, 0), at(12, 0)),
			want: false,
		},
		{
			name: "touching at boundary",
			a:    NewInterval(at(9, 0), at(10, 0)),
			b:    NewInterval(at(10, 0), at(11, 0)),
			want: false,
		},
		{
			name: "partial overlap",
			a:    NewInterval(at(9, 0), at(10, 30)),
			b:    NewInterval(at(10, 0), at(11, 0)),
			want: true,
		},
		{
			name: "one minute shared",
			a:    NewInterval(at(9, 0), at(10, 1)),
			b:    NewInterval(at(10, 0), at(11, 0)),
			want: true,
		},
		{
			name: "nested",
			a:    NewInterval(at(9, 0), at(12, 0)),
			b:    NewInterval(at(10, 0), at(11, 0)),
			want: true,
		},
		{
			name: "identical",
			a:    NewInterval(at(9, 0), at(10, 0)),
			b:    NewInterval(at(9, 0), at(10, 0)),
			want: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	iv := NewInterval(at(9, 0), at(10, 0))

	assert.False(t, iv.Contains(at(8, 59)))
	assert.True(t, iv.Contains(at(9, 0)), "start is inclusive")
	assert.True(t, iv.Contains(at(9, 30)))
	assert.False(t, iv.Contains(at(10, 0)), "end is exclusive")
	assert.False(t, iv.Contains(at(10, 1)))
}

func TestInterval_Duration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, NewInterval(at(9, 0), at(10, 30)).Duration())
}

func TestDayWindow(t *testing.T) {
	w := DayWindow(at(14, 37))

	assert.Equal(t, time.Date(2030, time.June, 2, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2030, time.June, 2, 23, 59, 59, 999999000, time.UTC), w.End)
	assert.True(t, w.IsValid())
}

func TestDayWindow_NormalizesToUTC(t *testing.T) {
	// 02:00 at UTC+5 is 21:00 the previous day in UTC, so the window
	// must cover June 1st, not June 2nd.
	loc := time.FixedZone("UTC+5", 5*3600)
	w := DayWindow(time.Date(2030, time.June, 2, 2, 0, 0, 0, loc))

	assert.Equal(t, time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.June, w.End.Month())
	assert.Equal(t, 1, w.End.Day())
}

func TestBooking_Interval(t *testing.T) {
	b := Booking{StartTime: at(9, 0), EndTime: at(10, 0)}
	assert.Equal(t, NewInterval(at(9, 0), at(10, 0)), b.Interval())
}

func TestBookingPatch_IsEmpty(t *testing.T) {
	assert.True(t, BookingPatch{}.IsEmpty())

	room := uint64(3)
	assert.False(t, BookingPatch{RoomID: &room}.IsEmpty())

	start := at(9, 0)
	assert.False(t, BookingPatch{StartTime: &start}.IsEmpty())
}

func TestKnownRole(t *testing.T) {
	for _, role := range []string{RoleRegular, RoleAdmin, RoleFacilityManager, RoleModerator, RoleAuditor, RoleServiceAccount} {
		assert.True(t, KnownRole(role), role)
	}
	assert.False(t, KnownRole("root"))
	assert.False(t, KnownRole(""))
}

func TestIdentity_IsHuman(t *testing.T) {
	assert.True(t, Identity{ID: 1, Role: RoleRegular}.IsHuman())
	assert.True(t, Identity{ID: 1, Role: RoleAdmin}.IsHuman())
	assert.False(t, Identity{ID: 1, Role: RoleServiceAccount}.IsHuman())
}
