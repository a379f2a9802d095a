package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/api/apierror"
	"github.com/snailsoup/auth-service/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Resolve(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrInvalidToken
}

type stubUserService struct {
	getFn     func(ctx context.Context, id string) (*domain.User, error)
	listFn    func(ctx context.Context) ([]*domain.User, error)
	setRoleFn func(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	return s.setRoleFn(ctx, id, role)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = apierror.NewHTTPErrorHandler(zerolog.New(io.Discard))
	return e
}

// call runs h against a JSON request and renders any returned error the way
// the router would.
func call(e *echo.Echo, h echo.HandlerFunc, method, body string, prepare func(c echo.Context)) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if prepare != nil {
		prepare(c)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}
