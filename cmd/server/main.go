package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/api"
	"github.com/snailsoup/auth-service/internal/api/handler"
	"github.com/snailsoup/auth-service/internal/api/metrics"
	"github.com/snailsoup/auth-service/internal/core/ports"
	"github.com/snailsoup/auth-service/internal/core/service"
	"github.com/snailsoup/auth-service/internal/infrastructure/db/memory"
	mongodir "github.com/snailsoup/auth-service/internal/infrastructure/db/mongo"
	pgdir "github.com/snailsoup/auth-service/internal/infrastructure/db/postgres"
	redisdir "github.com/snailsoup/auth-service/internal/infrastructure/db/redis"
	"github.com/snailsoup/auth-service/internal/infrastructure/security"
	"github.com/snailsoup/auth-service/internal/pkg/config"
	"github.com/snailsoup/auth-service/pkg/logger"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "auth-service: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "auth-service",
	})

	directory, closeDirectory, err := openDirectory(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := closeDirectory(closeCtx); err != nil {
			log.Error().Err(err).Msg("directory close failed")
		}
	}()

	hasher := metrics.InstrumentHasher(security.NewArgon2Hasher(security.DefaultArgon2Params))
	codec := security.NewJWTCodec([]byte(cfg.Auth.JWTSecret))

	authService := service.NewAuthService(directory, hasher, codec, service.AuthSettings{
		TokenLifetime: cfg.TokenLifetime(),
	}, logger.Component("auth"))
	userService := service.NewUserService(directory, logger.Component("users"))

	if cfg.BootstrapAdmin() {
		if err := service.BootstrapAdmin(ctx, authService, directory,
			cfg.Auth.BootstrapAdminUsername, cfg.Auth.BootstrapAdminPassword, logger.Component("bootstrap")); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:    authService,
		Users:   userService,
		Checks:  map[string]handler.Pinger{"directory": directory},
		Log:     logger.Component("http"),
		Metrics: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("directory", cfg.Directory.Driver).
			Dur("token_lifetime", cfg.TokenLifetime()).
			Msg("auth service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type closeFunc func(context.Context) error

func openDirectory(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserDirectory, closeFunc, error) {
	switch cfg.Directory.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory user directory; accounts are lost on restart")
		return memory.NewDirectory(), func(context.Context) error { return nil }, nil

	case config.DriverMongo:
		db, disconnect, err := mongodir.Connect(ctx, mongodir.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  connectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		dir := mongodir.NewUserDirectory(db)
		if err := dir.EnsureIndexes(ctx); err != nil {
			_ = disconnect(ctx)
			return nil, nil, err
		}
		return dir, disconnect, nil

	case config.DriverPostgres:
		db, err := pgdir.Open(ctx, pgdir.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			Timeout:      connectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		dir := pgdir.NewUserDirectory(db)
		if err := dir.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return dir, func(context.Context) error { return db.Close() }, nil

	case config.DriverRedis:
		client, err := redisdir.Connect(ctx, redisdir.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  connectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisdir.NewUserDirectory(client), func(context.Context) error { return client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown directory driver %q", cfg.Directory.Driver)
}
