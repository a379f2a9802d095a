package domain

import "errors"

// Registration.
var (
	ErrUsernameInUse = errors.New("username already in use")
)

// Login.
var (
	ErrIncorrectUser     = errors.New("incorrect user")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrCorruptHash       = errors.New("stored password hash is corrupt")
	ErrUnexpected        = errors.New("unexpected error")
)

// Token resolution and authorization.
var (
	ErrMissingToken     = errors.New("missing authorization token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("expired token")
	ErrUserDoesNotExist = errors.New("user does not exist")
	ErrForbidden        = errors.New("insufficient privileges")
)

// Token codec.
var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrMalformedToken   = errors.New("token is malformed")
)

// Directory and administration.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidRole    = errors.New("invalid account role")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternal       = errors.New("internal error")
)
