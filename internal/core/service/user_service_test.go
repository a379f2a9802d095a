package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

func seedUser(t *testing.T, dir *stubDirectory, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := dir.Insert(context.Background(), &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "x",
		AccountRole:  role,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestUserService_Get(t *testing.T) {
	dir := newStubDirectory()
	svc := NewUserService(dir, zerolog.Nop())
	u := seedUser(t, dir, "alice", domain.RoleUser)

	got, err := svc.Get(context.Background(), u.ID)
	if err != nil || got.Username != "alice" {
		t.Fatalf("unexpected result: %+v %v", got, err)
	}
	if _, err := svc.Get(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	dir := newStubDirectory()
	svc := NewUserService(dir, zerolog.Nop())
	seedUser(t, dir, "bob", domain.RoleUser)
	seedUser(t, dir, "alice", domain.RoleAdmin)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].Username != "bob" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestUserService_SetRole(t *testing.T) {
	dir := newStubDirectory()
	svc := NewUserService(dir, zerolog.Nop())
	u := seedUser(t, dir, "alice", domain.RoleUser)

	got, err := svc.SetRole(context.Background(), u.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if got.AccountRole != domain.RoleAdmin {
		t.Fatalf("expected Admin, got %s", got.AccountRole)
	}

	if _, err := svc.SetRole(context.Background(), u.ID, "Root"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.SetRole(context.Background(), uuid.NewString(), domain.RoleUser); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
