package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/snailsoup/auth-service/internal/api/apierror"
	"github.com/snailsoup/auth-service/internal/api/metrics"
	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

// IdentityKey is the echo.Context key holding the resolved *domain.Identity.
const IdentityKey = "identity"

const bearerPrefix = "Bearer "

// Authenticate resolves the bearer token and attaches the identity to both
// the echo context and the request context. The scheme match is
// case-sensitive; any header without it is treated as absent.
func Authenticate(resolver ports.TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				metrics.TokenResolutionsTotal.WithLabelValues(apierror.KindOf(domain.ErrMissingToken)).Inc()
				return domain.ErrMissingToken
			}

			req := c.Request()
			identity, err := resolver.Resolve(req.Context(), strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				metrics.TokenResolutionsTotal.WithLabelValues(apierror.KindOf(err)).Inc()
				return err
			}
			metrics.TokenResolutionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

			c.Set(IdentityKey, identity)
			c.SetRequest(req.WithContext(domain.ContextWithIdentity(req.Context(), identity)))

			return next(c)
		}
	}
}

// AuthenticateAdmin runs Authenticate and then requires the Admin role.
// Authentication failures always win over authorization failures.
func AuthenticateAdmin(resolver ports.TokenResolver) echo.MiddlewareFunc {
	authn := Authenticate(resolver)
	admin := RequireRole(domain.RoleAdmin)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authn(admin(next))
	}
}
