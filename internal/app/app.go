package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mcdonalid/Lychee/internal/auth"
	"github.com/Mcdonalid/Lychee/internal/config"
	"github.com/Mcdonalid/Lychee/internal/service/contact"
	"github.com/Mcdonalid/Lychee/internal/settings"
	"github.com/Mcdonalid/Lychee/internal/store"
	"github.com/Mcdonalid/Lychee/internal/store/sqlite"
	transporthttp "github.com/Mcdonalid/Lychee/internal/transport/http"
)

// App wires together storage, services and the HTTP transport.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      24 * time.Hour,
	}

	authService := auth.NewService(st, jwtConfig)

	if err := bootstrapAdmin(ctx, cfg, st, authService, logger); err != nil {
		st.Close()
		return nil, err
	}

	settingsService := settings.New(st)
	contactService := contact.New(st, settingsService, auth.NewPolicy())

	server := transporthttp.NewServer(contactService, authService, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

// bootstrapAdmin creates the configured administrator account if it does
// not exist yet.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, st store.Store, authService *auth.Service, logger *zerolog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	if _, err := st.GetUserByUsername(ctx, cfg.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("lookup admin user: %w", err)
	}

	if _, err := authService.CreateUser(ctx, cfg.AdminUsername, cfg.AdminPassword, true); err != nil {
		return fmt.Errorf("bootstrap admin user: %w", err)
	}

	logger.Info().Str("username", cfg.AdminUsername).Msg("admin user created")
	return nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
