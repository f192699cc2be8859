package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/marketsquare/account-system/internal/api/metrics"
	"github.com/marketsquare/account-system/internal/core/domain"
)

// RBAC enforces a flat role allow-list. No declared roles means the
// operation is open to any authenticated caller. There is no hierarchy:
// admin does not implicitly satisfy a seller-only list, every admitted role
// must be declared.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(allowed) == 0 {
				return next(c)
			}

			user, _ := c.Get("user").(*domain.User)
			if user == nil || user.Role == "" {
				metrics.AuthzDeniedTotal.WithLabelValues("none").Inc()
				return domain.ErrRoleNotFound
			}

			if _, ok := allowed[user.Role]; !ok {
				metrics.AuthzDeniedTotal.WithLabelValues(string(user.Role)).Inc()
				return domain.NewForbiddenf("User with role %q is not allowed to access this resource", user.Role)
			}

			return next(c)
		}
	}
}
