package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

// currentIdentity returns the identity attached by the Authenticate
// middleware. Its absence means the route was mounted without it.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return nil, domain.ErrMissingToken
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
// Both failures surface as ErrInvalidRequest.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: malformed body", domain.ErrInvalidRequest)
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return nil
}
