package ports

import (
	"context"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

// UserService exposes administrative reads and role changes.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}
