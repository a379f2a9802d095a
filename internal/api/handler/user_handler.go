package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type userResponse struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	AccountRole domain.Role `json:"account_role"`
}

type listUsersResponse struct {
	Users []userResponse `json:"users"`
}

type setRoleRequest struct {
	AccountRole string `json:"account_role" validate:"required"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, AccountRole: u.AccountRole}
}

// Me returns the caller's identity as resolved for this request.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{ID: id.ID, Username: id.Username, AccountRole: id.AccountRole})
}

// List returns every user ordered by username.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := listUsersResponse{Users: make([]userResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns a single user.
//
// @Summary      Get user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {object}  userResponse
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /admin/users/{user_id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// SetRole changes a user's account role. Tokens already issued pick up the
// new role on their next request.
//
// @Summary      Set account role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string          true  "User ID"
// @Param        body     body      setRoleRequest  true  "New role"
// @Success      200      {object}  userResponse
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /admin/users/{user_id}/role [put]
func (h *UserHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role, err := domain.ParseRole(req.AccountRole)
	if err != nil {
		return err
	}

	user, err := h.userService.SetRole(c.Request().Context(), c.Param("user_id"), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
