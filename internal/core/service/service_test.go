package service

import (
	"context"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository for service tests.
type stubUserRepo struct {
	users map[string]*domain.User // keyed by uuid
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.UUID] = u
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

var errNotFound = domain.NewNotFoundf("User not found")

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if domain.NormalizeUsername(existing.Username) == domain.NormalizeUsername(user.Username) {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.users[user.UUID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByUUID(_ context.Context, uuid string) (*domain.User, error) {
	if u, ok := r.users[uuid]; ok {
		return cloneUser(u), nil
	}
	return nil, errNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) FindByNormalizedUsername(_ context.Context, username string) (*domain.User, error) {
	normalized := domain.NormalizeUsername(username)
	for _, u := range r.users {
		if domain.NormalizeUsername(u.Username) == normalized {
			return cloneUser(u), nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.UUID]; !ok {
		return nil, errNotFound
	}
	r.users[user.UUID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, uuid string) error {
	if _, ok := r.users[uuid]; !ok {
		return errNotFound
	}
	delete(r.users, uuid)
	return nil
}

// stubProvider records the sign-in calls it receives.
type stubProvider struct {
	signInFn func(ctx context.Context, in ports.ProviderSignIn) (*ports.ProviderSignInResult, error)
	calls    []ports.ProviderSignIn
}

func (s *stubProvider) SignIn(ctx context.Context, in ports.ProviderSignIn) (*ports.ProviderSignInResult, error) {
	s.calls = append(s.calls, in)
	return s.signInFn(ctx, in)
}

// stubThrottle counts failures in memory.
type stubThrottle struct {
	failures map[string]int
	limit    int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) TooMany(_ context.Context, identifier string) (bool, error) {
	return t.failures[identifier] >= t.limit, nil
}

func (t *stubThrottle) Failure(_ context.Context, identifier string) error {
	t.failures[identifier]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, identifier string) error {
	delete(t.failures, identifier)
	return nil
}
