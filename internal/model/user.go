package model

import "time"

// Role names stored in users.role. Service accounts are machine
// identities: they authenticate like everyone else but cannot hold
// bookings of their own.
const (
	RoleRegular         = "regular"
	RoleAdmin           = "admin"
	RoleFacilityManager = "facility_manager"
	RoleModerator       = "moderator"
	RoleAuditor         = "auditor"
	RoleServiceAccount  = "service_account"
)

// KnownRole reports whether the given role name is one the system
// recognises. Registration rejects anything else.
func KnownRole(role string) bool {
	switch role {
	case RoleRegular, RoleAdmin, RoleFacilityManager, RoleModerator, RoleAuditor, RoleServiceAccount:
		return true
	}
	return false
}

// User represents an application user record as stored in the
// `users` table. The json tags are omitted here because these structs
// are used by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of the Role* constants above.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries expiry and revocation
// metadata. The plain token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
