package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/live-labs/authsession/pkg/authtest"
	"github.com/live-labs/authsession/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application serves the in-memory auth service on a real port.
type Application struct {
	cfg      Config
	logger   *slog.Logger
	registry *authtest.Registry
	server   *http.Server
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	logger := slogx.New(slogx.Config{
		Service: "authtest-server",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	svcCfg := authtest.DefaultConfig()
	svcCfg.Secret = cfg.Secret
	svcCfg.AccessTTL = cfg.AccessTTL
	svcCfg.RequireAdmin = cfg.RequireAdmin
	svcCfg.RotateRefresh = cfg.RotateRefresh
	svcCfg.Logger = logger

	registry := authtest.NewRegistry(&svcCfg)

	if cfg.AdminUsername != "" {
		if cfg.AdminPassword == "" {
			return nil, errors.New("AUTH_ADMIN_PASSWORD is required with AUTH_ADMIN_USERNAME")
		}
		if err := registry.Seed(cfg.AdminUsername, cfg.AdminPassword, authtest.RoleAdmin); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	return &Application{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           authtest.NewHandler(registry, svcCfg),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Handler exposes the HTTP handler, mostly for tests.
func (app *Application) Handler() http.Handler { return app.server.Handler }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return app.Serve(ln)
}

// Serve runs on ln until SIGINT/SIGTERM.
func (app *Application) Serve(ln net.Listener) error {
	app.logger.Info("authtest server starting",
		"addr", ln.Addr().String(),
		"require_admin", app.cfg.RequireAdmin,
		"rotate_refresh", app.cfg.RotateRefresh,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Serve(ln)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		return app.server.Close()
	}

	app.logger.Info("authtest server stopped")
	return nil
}
