package ports

import (
	"context"
	"fmt"

	"github.com/marketsquare/account-system/internal/core/domain"
)

// SignUpInput is the candidate payload handed to the identity provider.
// Role is intentionally absent: it is derived by the creation hook and
// never trusted from the caller.
type SignUpInput struct {
	Email     string
	Password  string
	Name      string
	Username  string
	FirstName string
	LastName  string
	BirthDate string
}

// Identity is the in-process identity provider: the system of record for
// credentials and sessions.
type Identity interface {
	// SignUp creates the account and opens a session, returning the
	// session token.
	SignUp(ctx context.Context, in SignUpInput) (*domain.User, string, error)
	// SignIn verifies email+password and opens a session.
	SignIn(ctx context.Context, email, password string) (*domain.User, string, error)
	// GetSession resolves a session token to its user. Any failure is
	// reported as the Unauthorized kind.
	GetSession(ctx context.Context, token string) (*domain.User, error)
	// SignOut revokes the session behind token. Unknown tokens are a no-op.
	SignOut(ctx context.Context, token string) error
}

// SessionStore tracks live sessions by id. A session exists between Save and
// Delete (or TTL expiry); Get on anything else returns ErrSessionNotFound.
type SessionStore interface {
	Save(ctx context.Context, sessionID, userUUID string) error
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// ProviderSignIn is a sign-in request forwarded to the identity provider's
// HTTP endpoint. Origin carries the caller's Origin header so the provider's
// trusted-origin check applies to the real caller.
type ProviderSignIn struct {
	Email    string
	Password string
	Origin   string
}

// ProviderSignInResult carries the provider response. SetCookie holds the
// provider's Set-Cookie header values verbatim; altering their attributes
// breaks cross-origin session continuity.
type ProviderSignInResult struct {
	User      *domain.User
	SetCookie []string
}

// ProviderError is a non-2xx response from the identity provider endpoint.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %d: %s", e.StatusCode, e.Message)
}

// IdentityClient is the transport-level view of the provider used by the
// credential resolver.
type IdentityClient interface {
	SignIn(ctx context.Context, in ProviderSignIn) (*ProviderSignInResult, error)
}
