package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marketsquare/account-system/internal/api/metrics"
	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
	"github.com/marketsquare/account-system/internal/identity"
)

// Auth resolves the session cookie against the identity provider and injects
// the user into the request context. The cookie is never trusted on its own;
// every request re-derives the user from the provider's get-session
// operation.
func Auth(provider ports.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(identity.SessionCookie)
			if err != nil || cookie.Value == "" {
				return domain.ErrSessionNotFound
			}

			start := time.Now()
			user, err := provider.GetSession(c.Request().Context(), cookie.Value)
			metrics.SessionLookupDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				return err
			}

			c.Set("user", user)
			c.Set("role", string(user.Role))

			return next(c)
		}
	}
}
