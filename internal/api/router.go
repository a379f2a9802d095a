package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/api/apierror"
	"github.com/snailsoup/auth-service/internal/api/handler"
	"github.com/snailsoup/auth-service/internal/api/middleware"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Auth   ports.AuthService
	Users  ports.UserService
	Checks map[string]handler.Pinger
	Log    zerolog.Logger

	// Metrics mounts the echoprometheus middleware and GET /metrics on the
	// default registry. Enable it once per process.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = apierror.NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit("64K"))

	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("auth_http"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	users := api.Group("/users", middleware.Authenticate(d.Auth))
	users.GET("/me", userHandler.Me)

	// --- Admin routes ---
	admin := api.Group("/admin", middleware.AuthenticateAdmin(d.Auth))
	admin.GET("/users", userHandler.List)
	admin.GET("/users/:user_id", userHandler.Get)
	admin.PUT("/users/:user_id/role", userHandler.SetRole)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
