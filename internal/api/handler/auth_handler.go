package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snailsoup/auth-service/internal/api/apierror"
	"github.com/snailsoup/auth-service/internal/api/metrics"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=1024"`
}

type registerResponse struct {
	ID string `json:"id"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Register creates a new user account with the User role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(apierror.KindOf(err)).Inc()
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(apierror.KindOf(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	return c.JSON(http.StatusCreated, registerResponse{ID: user.ID})
}

// Login verifies credentials and returns a signed bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(apierror.KindOf(err)).Inc()
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(apierror.KindOf(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	return c.JSON(http.StatusOK, loginResponse{Token: token})
}
