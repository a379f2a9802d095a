package ports

import (
	"context"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// TokenResolver is the slice of AuthService the authorization middleware needs.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}
