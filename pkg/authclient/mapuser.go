package authclient

import (
	"strings"
	"time"
)

// Profile is the raw provider profile: every field is optional and nothing
// about it is trusted to be well-formed. It tolerates both the provider's
// native shape (id, name, emailVerified) and the API's user shape (uuid,
// firstName, verifiedEmail).
type Profile struct {
	ID            string `json:"id"`
	UUID          string `json:"uuid"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	BirthDate     string `json:"birthDate"`
	EmailVerified bool   `json:"emailVerified"`
	VerifiedEmail bool   `json:"verifiedEmail"`
	Role          string `json:"role"`
	CreatedAt     any    `json:"createdAt"`
	UpdatedAt     any    `json:"updatedAt"`
}

// MapUser converts a raw profile into an AuthUser. It is total: any profile
// maps to some user, missing fields degrade to zero values and the role
// defaults to user. The display name splits on whitespace: the first token
// becomes the first name and the rest, rejoined, the last name. Explicit
// firstName/lastName fields override the split.
func MapUser(p Profile) AuthUser {
	first, last := splitDisplayName(p.Name)
	if p.FirstName != "" {
		first = p.FirstName
	}
	if p.LastName != "" {
		last = p.LastName
	}

	uuid := p.UUID
	if uuid == "" {
		uuid = p.ID
	}
	username := p.Username
	if username == "" {
		username = p.Email
	}

	return AuthUser{
		UUID:          uuid,
		Username:      username,
		Email:         p.Email,
		FirstName:     first,
		LastName:      last,
		BirthDate:     p.BirthDate,
		VerifiedEmail: p.EmailVerified || p.VerifiedEmail,
		Role:          parseRole(p.Role),
		CreatedAt:     normalizeDate(p.CreatedAt),
		UpdatedAt:     normalizeDate(p.UpdatedAt),
	}
}

func splitDisplayName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func parseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSeller:
		return RoleSeller
	}
	return RoleUser
}

// normalizeDate renders a timestamp of unknown shape as a string; anything
// unusable becomes the empty string, never an error.
func normalizeDate(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}
