package model

// Identity is the resolved caller of an operation: who they are and
// which role they act under. It is produced once by the auth
// middleware from verified JWT claims and passed by value into the
// service layer; nothing below the HTTP boundary re-derives it.
type Identity struct {
	ID   uint64 // authenticated user id (JWT "sub")
	Role string // role claim, one of the Role* constants
}

// IsHuman reports whether the identity belongs to a person rather
// than a service account. Only humans may hold bookings.
func (id Identity) IsHuman() bool {
	return id.Role != RoleServiceAccount
}
