package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

// AuthService is the credential resolver: it turns a login request into a
// provider sign-in call and forwards the session cookie untouched.
type AuthService struct {
	users    ports.UserRepository
	provider ports.IdentityClient
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

// NewAuthService builds the resolver. throttle may be nil to disable the
// failed-login limiter.
func NewAuthService(users ports.UserRepository, provider ports.IdentityClient, throttle ports.LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, provider: provider, throttle: throttle, log: log}
}

// Login resolves the identifier to an email, signs in against the identity
// provider and returns the provider's user plus its Set-Cookie headers.
//
// An unknown username and a wrong password produce the identical
// "Invalid credentials" message so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	identifier := strings.TrimSpace(in.Identifier)
	password := strings.TrimSpace(in.Password)
	if identifier == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	throttleKey := domain.NormalizeUsername(identifier)
	if s.throttle != nil {
		tooMany, err := s.throttle.TooMany(ctx, throttleKey)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed")
		} else if tooMany {
			return nil, domain.ErrTooManyAttempts
		}
	}

	email := identifier
	if !strings.Contains(identifier, "@") {
		user, err := s.users.FindByNormalizedUsername(ctx, throttleKey)
		if err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				s.recordFailure(ctx, throttleKey)
				return nil, domain.ErrInvalidCredentials
			}
			return nil, err
		}
		email = user.Email
	}

	result, err := s.provider.SignIn(ctx, ports.ProviderSignIn{Email: email, Password: password, Origin: in.Origin})
	if err != nil {
		var pe *ports.ProviderError
		if errors.As(err, &pe) {
			s.recordFailure(ctx, throttleKey)
			if pe.Message != "" {
				return nil, domain.NewUnauthorized(pe.Message)
			}
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, throttleKey); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	return &ports.LoginResult{Success: true, User: result.User, SetCookie: result.SetCookie}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Failure(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
}
