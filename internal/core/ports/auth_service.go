package ports

import (
	"context"

	"github.com/marketsquare/account-system/internal/core/domain"
)

// LoginInput is a resolved credential pair plus the request's Origin header.
// Identifier may be an email or a username.
type LoginInput struct {
	Identifier string
	Password   string
	Origin     string
}

// LoginResult is the success payload of the login operation. SetCookie is
// copied verbatim onto the HTTP response and never serialized.
type LoginResult struct {
	Success   bool         `json:"success"`
	User      *domain.User `json:"user"`
	SetCookie []string     `json:"-"`
}

// AuthService is the credential resolver.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}

// LoginThrottle limits repeated credential failures per identifier.
type LoginThrottle interface {
	// TooMany reports whether identifier has exhausted its failure budget.
	TooMany(ctx context.Context, identifier string) (bool, error)
	// Failure records one failed attempt.
	Failure(ctx context.Context, identifier string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, identifier string) error
}
