package domain

import "strings"

// Role is the coarse privilege tier attached to a user record.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", ErrInvalidRole
}

// User is the persisted identity as owned by the user directory.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	AccountRole  Role   `json:"account_role"`
}

// Identity is the request-scoped view of an authenticated caller.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AccountRole Role   `json:"account_role"`
}

// IdentityOf projects the current record into an Identity.
func IdentityOf(u *User) *Identity {
	return &Identity{ID: u.ID, Username: u.Username, AccountRole: u.AccountRole}
}

// IsAdmin reports whether the identity carries the Admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.AccountRole == RoleAdmin
}
