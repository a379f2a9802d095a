// Package apierror owns the mapping from domain error kinds to HTTP
// responses. Every layer returns domain errors; only the handler installed
// here decides what the client sees.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/api/metrics"
	"github.com/snailsoup/auth-service/internal/core/domain"
)

// Class tells operators who is at fault for a rejected request.
type Class string

const (
	ClassCaller    Class = "caller"
	ClassIntegrity Class = "integrity"
	ClassInternal  Class = "internal"
)

// Mapping binds one error kind to its HTTP rendering. An empty Message
// means the error text itself is safe to return.
type Mapping struct {
	Err     error
	Kind    string
	Status  int
	Message string
	Class   Class
}

const (
	msgUnauthorized = "unauthorized"
	msgCredentials  = "invalid credentials"
	msgInternal     = "internal server error"
)

// Table is scanned top to bottom and the first errors.Is match wins, so
// specific causes sit above the kinds that wrap them.
var Table = []Mapping{
	{domain.ErrMissingToken, "missing_token", http.StatusUnauthorized, "missing authorization token", ClassCaller},
	{domain.ErrExpiredToken, "expired_token", http.StatusUnauthorized, msgUnauthorized, ClassCaller},
	{domain.ErrInvalidSignature, "invalid_signature", http.StatusUnauthorized, msgUnauthorized, ClassIntegrity},
	{domain.ErrInvalidToken, "invalid_token", http.StatusUnauthorized, msgUnauthorized, ClassCaller},
	{domain.ErrMalformedToken, "malformed_token", http.StatusUnauthorized, msgUnauthorized, ClassCaller},
	{domain.ErrUserDoesNotExist, "user_does_not_exist", http.StatusUnauthorized, msgUnauthorized, ClassCaller},
	{domain.ErrForbidden, "forbidden", http.StatusForbidden, "insufficient privileges", ClassCaller},
	{domain.ErrUsernameInUse, "username_in_use", http.StatusBadRequest, "username already in use", ClassCaller},
	{domain.ErrIncorrectUser, "incorrect_user", http.StatusUnauthorized, msgCredentials, ClassCaller},
	{domain.ErrIncorrectPassword, "incorrect_password", http.StatusUnauthorized, msgCredentials, ClassCaller},
	{domain.ErrCorruptHash, "corrupt_hash", http.StatusInternalServerError, msgInternal, ClassIntegrity},
	{domain.ErrInvalidRole, "invalid_role", http.StatusBadRequest, "", ClassCaller},
	{domain.ErrInvalidRequest, "invalid_request", http.StatusBadRequest, "", ClassCaller},
	{domain.ErrUserNotFound, "user_not_found", http.StatusNotFound, "user not found", ClassCaller},
	{domain.ErrUnexpected, "unexpected", http.StatusInternalServerError, msgInternal, ClassInternal},
	{domain.ErrInternal, "internal", http.StatusInternalServerError, msgInternal, ClassInternal},
}

var unknown = Mapping{Kind: "unknown", Status: http.StatusInternalServerError, Message: msgInternal, Class: ClassInternal}

// Lookup returns the mapping for err. Errors outside the table render as 500.
func Lookup(err error) Mapping {
	for _, m := range Table {
		if errors.Is(err, m.Err) {
			return m
		}
	}
	return unknown
}

// KindOf is the stable label used in logs and metrics.
func KindOf(err error) string {
	return Lookup(err).Kind
}

// StatusFor returns the HTTP status err renders as.
func StatusFor(err error) int {
	return Lookup(err).Status
}

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders
// {"error": "<message>"} for every failure. Caller faults log at info,
// integrity faults at warn and internal faults at error with the cause.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Echo's own errors (bind failures, 404 from router, etc.)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)})
			return
		}

		m := Lookup(err)
		metrics.RejectionsTotal.WithLabelValues(m.Kind, string(m.Class)).Inc()

		var ev *zerolog.Event
		switch m.Class {
		case ClassCaller:
			ev = log.Info()
		case ClassIntegrity:
			ev = log.Warn().Bool("integrity", true)
		default:
			ev = log.Error()
		}
		ev.Err(err).
			Str("kind", m.Kind).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", m.Status).
			Msg("request rejected")

		msg := m.Message
		if msg == "" {
			msg = err.Error()
		}
		_ = c.JSON(m.Status, errorResponse{Error: msg})
	}
}
