package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

func withIdentity(id *domain.Identity) func(echo.Context) {
	return func(c echo.Context) {
		req := c.Request()
		c.SetRequest(req.WithContext(domain.ContextWithIdentity(req.Context(), id)))
	}
}

func withUserID(id string) func(echo.Context) {
	return func(c echo.Context) {
		c.SetParamNames("user_id")
		c.SetParamValues(id)
	}
}

func TestUserHandler_Me(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{})
	alice := &domain.Identity{ID: "a1", Username: "alice", AccountRole: domain.RoleUser}

	rec := call(e, h.Me, http.MethodGet, "", withIdentity(alice))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "a1" || resp.Username != "alice" || resp.AccountRole != domain.RoleUser {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Me_WithoutIdentity(t *testing.T) {
	e := newEcho()
	rec := call(e, NewUserHandler(&stubUserService{}).Me, http.MethodGet, "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "a1", Username: "alice", PasswordHash: "secret-hash", AccountRole: domain.RoleUser},
				{ID: "r1", Username: "root", PasswordHash: "secret-hash", AccountRole: domain.RoleAdmin},
			}, nil
		},
	}

	rec := call(e, NewUserHandler(stub).List, http.MethodGet, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Users) != 2 || resp.Users[1].AccountRole != domain.RoleAdmin {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if containsHash(rec.Body.Bytes()) {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func containsHash(b []byte) bool {
	var raw map[string][]map[string]any
	_ = json.Unmarshal(b, &raw)
	for _, u := range raw["users"] {
		if _, ok := u["password_hash"]; ok {
			return true
		}
	}
	return false
}

func TestUserHandler_Get(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "a1" {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: "a1", Username: "alice", AccountRole: domain.RoleUser}, nil
		},
	}
	h := NewUserHandler(stub)

	if rec := call(e, h.Get, http.MethodGet, "", withUserID("a1")); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := call(e, h.Get, http.MethodGet, "", withUserID("zz")); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_Get_MalformedID(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, errors.Join(domain.ErrInvalidRequest, errors.New("user id: invalid UUID length"))
		},
	}

	rec := call(e, NewUserHandler(stub).Get, http.MethodGet, "", withUserID("nope"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_SetRole(t *testing.T) {
	e := newEcho()
	var gotRole domain.Role
	stub := &stubUserService{
		setRoleFn: func(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
			gotRole = role
			return &domain.User{ID: id, Username: "alice", AccountRole: role}, nil
		},
	}

	rec := call(e, NewUserHandler(stub).SetRole, http.MethodPut, `{"account_role":"admin"}`, withUserID("a1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotRole != domain.RoleAdmin {
		t.Fatalf("expected role parsed to Admin, got %q", gotRole)
	}
}

func TestUserHandler_SetRole_InvalidRole(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		setRoleFn: func(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	for _, body := range []string{`{"account_role":"superuser"}`, `{}`, "["} {
		rec := call(e, h.SetRole, http.MethodPut, body, withUserID("a1"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}
