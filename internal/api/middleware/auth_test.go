package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
	"github.com/marketsquare/account-system/internal/identity"
)

// stubIdentity resolves a single fixed token to a fixed user.
type stubIdentity struct {
	token string
	user  *domain.User
}

func (s *stubIdentity) SignUp(context.Context, ports.SignUpInput) (*domain.User, string, error) {
	return nil, "", nil
}

func (s *stubIdentity) SignIn(context.Context, string, string) (*domain.User, string, error) {
	return nil, "", nil
}

func (s *stubIdentity) GetSession(_ context.Context, token string) (*domain.User, error) {
	if token != s.token {
		return nil, domain.ErrSessionNotFound
	}
	return s.user, nil
}

func (s *stubIdentity) SignOut(context.Context, string) error { return nil }

func TestAuthMiddleware_ValidCookie(t *testing.T) {
	e := echo.New()
	provider := &stubIdentity{token: "tok-1", user: &domain.User{UUID: "u1", Role: domain.RoleAdmin}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: identity.SessionCookie, Value: "tok-1"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(provider)(func(c echo.Context) error {
		called = true
		user, ok := c.Get("user").(*domain.User)
		if !ok || user.UUID != "u1" {
			t.Fatalf("user not set on context")
		}
		if c.Get("role") != "admin" {
			t.Fatalf("role not set on context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_MissingCookie(t *testing.T) {
	e := echo.New()
	provider := &stubIdentity{token: "tok-1", user: &domain.User{UUID: "u1"}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(provider)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !domain.IsKind(err, domain.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthMiddleware_RevokedSession(t *testing.T) {
	e := echo.New()
	provider := &stubIdentity{token: "tok-1", user: &domain.User{UUID: "u1"}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: identity.SessionCookie, Value: "stale-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(provider)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !domain.IsKind(err, domain.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
