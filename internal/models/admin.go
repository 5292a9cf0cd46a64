package models

import "time"

// Role is the back-office role hierarchy. Roles are ordered; authorization
// checks are always "at least this role".
type Role string

const (
	RoleViewer     Role = "VIEWER"
	RoleEditor     Role = "EDITOR"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var roleRank = map[Role]int{
	RoleViewer:     0,
	RoleEditor:     1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks equal to or above min. Unknown roles
// never satisfy any requirement.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	minRank, ok := roleRank[min]
	if !ok {
		return false
	}
	return rank >= minRank
}

type Admin struct {
	ID           string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session authorizes a single issued token until expiry or revocation.
// Tokens that verify cryptographically but have no session row are rejected.
type Session struct {
	ID        string
	AdminID   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// LoginAttempt tracks failed logins per (client IP, email) pair. The counter
// only grows within the lockout window; it resets on success or window expiry.
type LoginAttempt struct {
	IPAddress     string
	Email         string
	Attempts      int
	LastAttemptAt time.Time
}
