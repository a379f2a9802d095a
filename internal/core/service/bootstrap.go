package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

// BootstrapAdmin makes sure username exists with the Admin role. A missing
// account is registered with password; an existing one keeps its password
// and is only promoted.
func BootstrapAdmin(
	ctx context.Context,
	auth ports.AuthService,
	directory ports.UserDirectory,
	username, password string,
	log zerolog.Logger,
) error {
	user, err := auth.Register(ctx, username, password)
	switch {
	case errors.Is(err, domain.ErrUsernameInUse):
		user, err = directory.GetByName(ctx, username)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	case err != nil:
		return fmt.Errorf("bootstrap admin: %w", err)
	default:
		log.Info().Str("username", username).Msg("bootstrap admin registered")
	}

	if user.AccountRole == domain.RoleAdmin {
		return nil
	}
	if _, err := directory.UpdateRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Info().Str("username", username).Str("user_id", user.ID).Msg("bootstrap admin promoted")
	return nil
}
