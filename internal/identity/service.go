// Package identity is the in-process identity provider: the system of record
// for credentials and sessions. Everything else in the API talks to it
// through the ports.Identity interface or its HTTP facade.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

const minPasswordLength = 4

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "account_session"

// Service implements ports.Identity over a user repository and a session
// store.
type Service struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	hook     *Hook
	codec    *TokenCodec
	log      zerolog.Logger
}

func NewService(users ports.UserRepository, sessions ports.SessionStore, hook *Hook, codec *TokenCodec, log zerolog.Logger) *Service {
	return &Service{users: users, sessions: sessions, hook: hook, codec: codec, log: log}
}

// SignUp validates the candidate, runs the creation hook, stores the account
// and opens a session.
func (s *Service) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, string, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", domain.NewValidation("A valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", domain.NewValidation("Password is too short")
	}

	first, last := in.FirstName, in.LastName
	if first == "" && last == "" {
		first, last = splitName(in.Name)
	}

	now := time.Now().UTC()
	candidate := &domain.User{
		UUID:      uuid.NewString(),
		Username:  strings.TrimSpace(in.Username),
		Email:     email,
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
		BirthDate: strings.TrimSpace(in.BirthDate),
		CreatedAt: now,
		UpdatedAt: now,
	}

	candidate, err := s.hook.BeforeCreate(ctx, candidate)
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	candidate.PasswordHash = string(hash)

	created, err := s.users.Insert(ctx, candidate)
	if err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, created.UUID)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// SignIn verifies email+password and opens a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.UUID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetSession resolves a token to its user. The token must carry a valid
// signature, be unexpired, and reference a live session record.
func (s *Service) GetSession(ctx context.Context, token string) (*domain.User, error) {
	sessionID, userUUID, err := s.codec.Parse(token)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	storedUUID, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if storedUUID != userUUID {
		return nil, domain.ErrSessionNotFound
	}

	user, err := s.users.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	return user, nil
}

// SignOut revokes the session behind token. Tokens that no longer parse are
// already dead and treated as a no-op.
func (s *Service) SignOut(ctx context.Context, token string) error {
	sessionID, _, err := s.codec.Parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *Service) openSession(ctx context.Context, userUUID string) (string, error) {
	token, sessionID, err := s.codec.Issue(userUUID)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Save(ctx, sessionID, userUUID); err != nil {
		return "", err
	}
	return token, nil
}

// splitName breaks a display name on whitespace: first token is the first
// name, the rest rejoined is the last name.
func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
