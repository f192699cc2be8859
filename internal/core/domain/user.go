package domain

import (
	"regexp"
	"strings"
	"time"
)

// Role is the single authorization role carried by every user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
)

// ParseRole maps a wire value to a Role. Unknown values report ok=false so
// callers can decide between rejecting and falling back to RoleUser.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	case RoleSeller:
		return RoleSeller, true
	}
	return RoleUser, false
}

// User models an account as stored by the identity provider.
// The password hash never leaves the server.
type User struct {
	UUID          string    `json:"uuid"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	BirthDate     string    `json:"birthDate,omitempty"`
	VerifiedEmail bool      `json:"verifiedEmail"`
	Role          Role      `json:"role"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Name joins first and last name, trimming the gap when either is empty.
func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeUsername produces the canonical form used for uniqueness
// comparison. The stored username keeps its original casing.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	namePattern     = regexp.MustCompile(`^\p{L}[\p{L}\p{M}' -]*$`)
)

// ValidUsername reports whether s is letters and digits only.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(strings.TrimSpace(s))
}

// ValidName accepts Unicode letters, combining marks, spaces, hyphens and
// apostrophes, starting with a letter.
func ValidName(s string) bool {
	return namePattern.MatchString(strings.TrimSpace(s))
}

// SeedRoleTable maps bootstrap emails to roles. It is consulted once, at user
// creation time, and is never mutated afterwards.
type SeedRoleTable map[string]Role

// RoleFor returns the seeded role for email, or RoleUser.
func (t SeedRoleTable) RoleFor(email string) Role {
	if r, ok := t[email]; ok {
		return r
	}
	return RoleUser
}

// DefaultSeedRoles is the table shipped with the dev bootstrap accounts.
func DefaultSeedRoles() SeedRoleTable {
	return SeedRoleTable{
		"admin@example.com":  RoleAdmin,
		"user@example.com":   RoleUser,
		"seller@example.com": RoleSeller,
	}
}
