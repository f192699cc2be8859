package ports

import (
	"context"

	"github.com/marketsquare/account-system/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
//
// The store must enforce a case-insensitive unique constraint on the
// username; Insert and Update surface a violation as the Conflict kind.
// Lookups that find nothing return the NotFound kind.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUUID(ctx context.Context, uuid string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByNormalizedUsername matches against the lowercased, trimmed
	// username regardless of stored casing.
	FindByNormalizedUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, uuid string) error
}
