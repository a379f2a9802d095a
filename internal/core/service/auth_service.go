package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

const defaultTokenLifetime = time.Hour

// AuthSettings is fixed at startup and never mutated afterwards.
type AuthSettings struct {
	TokenLifetime time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// AuthService implements registration, login and token resolution. It keeps
// no per-request state and is safe for concurrent use.
type AuthService struct {
	directory ports.UserDirectory
	hasher    ports.PasswordHasher
	codec     ports.TokenCodec
	lifetime  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	directory ports.UserDirectory,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	settings AuthSettings,
	log zerolog.Logger,
) *AuthService {
	lifetime := settings.TokenLifetime
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}
	now := settings.Clock
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		directory: directory,
		hasher:    hasher,
		codec:     codec,
		lifetime:  lifetime,
		now:       now,
		log:       log,
	}
}

// Register creates a user with the User role.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	// Hash before the lookup so a taken username costs the same as a free one.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error().Err(err).Msg("password hashing failed")
		return nil, fmt.Errorf("%w: hash password: %w", domain.ErrInternal, err)
	}

	existing, err := s.directory.GetByName(ctx, username)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrUsernameInUse
	case err == nil, errors.Is(err, domain.ErrUserNotFound):
	default:
		s.log.Error().Err(err).Msg("user lookup failed during registration")
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}

	created, err := s.directory.Insert(ctx, &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		AccountRole:  domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameInUse) {
			return nil, domain.ErrUsernameInUse
		}
		s.log.Error().Err(err).Msg("user insert failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.directory.GetByName(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrIncorrectUser
		}
		s.log.Error().Err(err).Msg("user lookup failed during login")
		return "", fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptHash) {
			s.log.Error().Err(err).Str("user_id", user.ID).Bool("integrity", true).Msg("stored password hash is corrupt")
			return "", domain.ErrCorruptHash
		}
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("password verification failed")
		return "", fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
	if !ok {
		return "", domain.ErrIncorrectPassword
	}

	now := s.now()
	token, err := s.codec.Encode(domain.TokenClaims{
		SubjectID: user.ID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.lifetime).Unix(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("token encoding failed")
		return "", fmt.Errorf("%w: %w", domain.ErrUnexpected, err)
	}

	return token, nil
}

// Resolve turns a bearer token into the caller's current identity. Expiry is
// checked before the directory is consulted, and the role always comes from
// the fresh record, never from the token.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			s.log.Warn().Bool("integrity", true).Msg("token signature mismatch")
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %w", domain.ErrInvalidToken, err)
	}

	if claims.ExpiredAt(s.now().Unix()) {
		return nil, domain.ErrExpiredToken
	}

	user, err := s.directory.Get(ctx, id.String())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserDoesNotExist
		}
		s.log.Error().Err(err).Str("user_id", id.String()).Msg("user lookup failed during resolution")
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}

	return domain.IdentityOf(user), nil
}
