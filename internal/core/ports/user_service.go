package ports

import (
	"context"

	"github.com/marketsquare/account-system/internal/core/domain"
)

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	BirthDate *string
	Role      *string
}

// UserService exposes the admin-gated user management operations plus the
// unauthenticated availability checks.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, uuid string) (*domain.User, error)
	Update(ctx context.Context, uuid string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, uuid string) error
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
}
