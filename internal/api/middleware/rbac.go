package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

// RequireRole enforces role-based access control on an authenticated
// request. It must run after Authenticate.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := domain.IdentityFromContext(c.Request().Context())
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[identity.AccountRole]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
