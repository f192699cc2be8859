package identity

import (
	"context"
	"strings"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

// Hook intercepts user creation before the insert. It derives the role and
// username for the candidate and runs an advisory uniqueness pre-check.
//
// The pre-check is a UX fast path, not the safety mechanism: two concurrent
// signups can both pass it. The repository's case-insensitive unique
// constraint is the final arbiter, and a lost race still surfaces as a
// conflict from Insert.
type Hook struct {
	seeds domain.SeedRoleTable
	users ports.UserRepository
}

// NewHook builds a Hook with an explicit seed role table.
func NewHook(seeds domain.SeedRoleTable, users ports.UserRepository) *Hook {
	return &Hook{seeds: seeds, users: users}
}

// BeforeCreate populates role and username on the candidate and rejects
// usernames that are already taken. Any role present on the inbound
// candidate is discarded.
func (h *Hook) BeforeCreate(ctx context.Context, candidate *domain.User) (*domain.User, error) {
	candidate.Role = h.seeds.RoleFor(candidate.Email)

	username := candidate.Username
	if username == "" {
		username, _, _ = strings.Cut(candidate.Email, "@")
	}

	if normalized := domain.NormalizeUsername(username); normalized != "" {
		existing, err := h.users.FindByNormalizedUsername(ctx, normalized)
		if err != nil && !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrUsernameTaken
		}
	}

	candidate.Username = username
	return candidate, nil
}
