package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

// UserService implements the admin user management operations and the
// unauthenticated availability checks.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, uuid string) (*domain.User, error) {
	user, err := s.users.FindByUUID(ctx, uuid)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewNotFoundf("User with id %q not found", uuid)
		}
		return nil, err
	}
	return user, nil
}

// Update applies a partial update. The role, when present, must parse to a
// known value; it is the one place a role can change after creation, and
// only admins reach this operation.
func (s *UserService) Update(ctx context.Context, uuid string, update ports.UserUpdate) (*domain.User, error) {
	if uuid == "" {
		return nil, domain.NewValidation("User id is required")
	}

	user, err := s.Get(ctx, uuid)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if !domain.ValidUsername(username) {
			return nil, domain.NewValidation("Username can only contain letters and numbers")
		}
		if err := s.ensureUsernameFree(ctx, username, uuid); err != nil {
			return nil, err
		}
		user.Username = username
	}
	if update.FirstName != nil {
		if !domain.ValidName(*update.FirstName) {
			return nil, domain.NewValidation("First name can only contain letters")
		}
		user.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		if !domain.ValidName(*update.LastName) {
			return nil, domain.NewValidation("Last name can only contain letters")
		}
		user.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.NewValidation("A valid email is required")
		}
		user.Email = email
	}
	if update.BirthDate != nil {
		user.BirthDate = strings.TrimSpace(*update.BirthDate)
	}
	if update.Role != nil {
		role, ok := domain.ParseRole(*update.Role)
		if !ok {
			return nil, domain.NewValidation("Invalid role")
		}
		user.Role = role
	}

	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, uuid string) error {
	if uuid == "" {
		return domain.NewValidation("User id is required")
	}
	if err := s.users.Delete(ctx, uuid); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.NewNotFoundf("User with id %q not found", uuid)
		}
		return err
	}
	return nil
}

// UsernameAvailable reports whether no user holds username, compared
// case-insensitively. The empty string is never available.
func (s *UserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	normalized := domain.NormalizeUsername(username)
	if normalized == "" {
		return false, nil
	}
	_, err := s.users.FindByNormalizedUsername(ctx, normalized)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// EmailAvailable reports whether no user holds email.
func (s *UserService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}
	_, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username, selfUUID string) error {
	existing, err := s.users.FindByNormalizedUsername(ctx, domain.NormalizeUsername(username))
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil
		}
		return err
	}
	if existing.UUID != selfUUID {
		return domain.ErrUsernameTaken
	}
	return nil
}
