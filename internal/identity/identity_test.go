package identity

import (
	"context"

	"github.com/marketsquare/account-system/internal/core/domain"
)

// memRepo is an in-memory UserRepository enforcing the same case-insensitive
// username constraint the mongo index does.
type memRepo struct {
	users map[string]*domain.User // keyed by uuid
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

var errNotFound = domain.NewNotFoundf("User not found")

func (r *memRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if domain.NormalizeUsername(existing.Username) == domain.NormalizeUsername(user.Username) {
			return nil, domain.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return nil, domain.NewConflict("Email already exists")
		}
	}
	r.users[user.UUID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *memRepo) FindByUUID(_ context.Context, uuid string) (*domain.User, error) {
	if u, ok := r.users[uuid]; ok {
		return cloneUser(u), nil
	}
	return nil, errNotFound
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, errNotFound
}

func (r *memRepo) FindByNormalizedUsername(_ context.Context, username string) (*domain.User, error) {
	normalized := domain.NormalizeUsername(username)
	for _, u := range r.users {
		if domain.NormalizeUsername(u.Username) == normalized {
			return cloneUser(u), nil
		}
	}
	return nil, errNotFound
}

func (r *memRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.UUID]; !ok {
		return nil, errNotFound
	}
	r.users[user.UUID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *memRepo) Delete(_ context.Context, uuid string) error {
	if _, ok := r.users[uuid]; !ok {
		return errNotFound
	}
	delete(r.users, uuid)
	return nil
}

// memSessions is an in-memory SessionStore.
type memSessions struct {
	sessions map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]string)}
}

func (s *memSessions) Save(_ context.Context, sessionID, userUUID string) error {
	s.sessions[sessionID] = userUUID
	return nil
}

func (s *memSessions) Get(_ context.Context, sessionID string) (string, error) {
	if uuid, ok := s.sessions[sessionID]; ok {
		return uuid, nil
	}
	return "", domain.ErrSessionNotFound
}

func (s *memSessions) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}
