// Package server initializes and runs the shopgraph server: it validates
// configuration, connects the identity store, wires the credential service
// into the graph endpoint, and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dkarpov/shopgraph/internal/logging"
	"github.com/dkarpov/shopgraph/internal/server/auth"
	"github.com/dkarpov/shopgraph/internal/server/config"
	"github.com/dkarpov/shopgraph/internal/server/graph"
	"github.com/dkarpov/shopgraph/internal/server/identities"
	"github.com/dkarpov/shopgraph/internal/server/metrics"
	"github.com/dkarpov/shopgraph/internal/server/storage"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   storage.Manager
	handler *graph.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	store, err := storage.NewManager(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	issuer := auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	hasher := auth.NewPasswordHasher(auth.DefaultHashCost)
	credentials := identities.NewService(store.Identities(), hasher, issuer)

	handler := graph.NewHandler(logger, issuer, metrics.New(), cfg.RequestTimeout)
	handler.RegisterCredentialMutations(credentials)

	return &App{config: cfg, logger: logger, store: store, handler: handler}, nil
}

// validateConfig enforces the startup-time fatal conditions: the signing
// secret and the configured backend's endpoint must be present.
func validateConfig(cfg *config.Config) error {
	if cfg.SecretKey == "" {
		return errors.New("signing secret is not configured")
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseDSN == "" {
		return errors.New("database DSN is not configured")
	}
	if cfg.StorageBackend == "redis" && cfg.RedisURL == "" {
		return errors.New("redis URL is not configured")
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
