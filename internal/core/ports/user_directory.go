package ports

import (
	"context"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

// UserDirectory is the persistence boundary for user records.
//
// Get and GetByName return domain.ErrUserNotFound when no record matches.
// Insert returns domain.ErrUsernameInUse when the username is already taken.
// Any other error is an I/O failure.
type UserDirectory interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	Ping(ctx context.Context) error
}
