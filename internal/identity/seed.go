package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketsquare/account-system/internal/core/domain"
)

// SeedUser is a bootstrap account created at startup in non-production
// environments.
type SeedUser struct {
	Email     string
	Password  string
	Name      string
	Username  string
	Role      domain.Role
	BirthDate string
}

// DefaultSeedUsers mirrors the seed role table: one account per role.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Email: "admin@example.com", Password: "1234", Name: "Admin User", Username: "admin", Role: domain.RoleAdmin, BirthDate: "1990-01-01"},
		{Email: "user@example.com", Password: "1234", Name: "Regular User", Username: "user", Role: domain.RoleUser, BirthDate: "1995-06-15"},
		{Email: "seller@example.com", Password: "1234", Name: "Store Seller", Username: "seller", Role: domain.RoleSeller, BirthDate: "1988-11-20"},
	}
}

// Bootstrap inserts the seed accounts that do not exist yet. It goes through
// the creation hook like any signup, so the derived role comes from the seed
// role table, but it opens no session.
func (s *Service) Bootstrap(ctx context.Context, seeds []SeedUser) error {
	for _, seed := range seeds {
		if _, err := s.users.FindByEmail(ctx, seed.Email); err == nil {
			continue
		} else if !domain.IsKind(err, domain.KindNotFound) {
			return err
		}

		first, last := splitName(seed.Name)
		now := time.Now().UTC()
		candidate := &domain.User{
			UUID:          uuid.NewString(),
			Username:      seed.Username,
			Email:         seed.Email,
			FirstName:     first,
			LastName:      last,
			BirthDate:     seed.BirthDate,
			VerifiedEmail: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		candidate, err := s.hook.BeforeCreate(ctx, candidate)
		if err != nil {
			if domain.IsKind(err, domain.KindConflict) {
				continue
			}
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		candidate.PasswordHash = string(hash)

		if _, err := s.users.Insert(ctx, candidate); err != nil {
			if domain.IsKind(err, domain.KindConflict) {
				continue
			}
			return err
		}
		s.log.Info().Str("email", seed.Email).Str("role", string(candidate.Role)).Msg("seed account created")
	}
	return nil
}
