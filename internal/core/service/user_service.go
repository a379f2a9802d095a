package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

// UserService backs the administrative user routes.
type UserService struct {
	directory ports.UserDirectory
	log       zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(directory ports.UserDirectory, log zerolog.Logger) *UserService {
	return &UserService{directory: directory, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: user id: %w", domain.ErrInvalidRequest, err)
	}

	user, err := s.directory.Get(ctx, uid.String())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
	return users, nil
}

// SetRole changes a user's role. The change is visible to the next request
// the user makes because resolution always re-reads the record.
func (s *UserService) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: user id: %w", domain.ErrInvalidRequest, err)
	}

	user, err := s.directory.UpdateRole(ctx, uid.String(), role)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}

	s.log.Info().Str("user_id", user.ID).Str("account_role", string(role)).Msg("account role changed")
	return user, nil
}
