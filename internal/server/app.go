// Package server wires configuration, the store, the services and the two
// network endpoints (REST API and gRPC health) into one runnable app with
// graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/notesvault/notesvault/internal/logging"
	"github.com/notesvault/notesvault/internal/server/auth"
	"github.com/notesvault/notesvault/internal/server/config"
	"github.com/notesvault/notesvault/internal/server/repositories/repomanager"
	"github.com/notesvault/notesvault/internal/server/rest"
	"github.com/notesvault/notesvault/internal/server/services"

	gs "github.com/notesvault/notesvault/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	rest        *rest.Server
	health      *gs.HealthServer
}

// NewApp opens the store, applies migrations and builds both servers.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.Env, os.Stdout)

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "using the built-in default signing key; set JWT_SECRET or -s before deploying")
	}

	rm, err := repomanager.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenTTL, nil)
	us := services.NewUserService(rm, tokens)
	ns := services.NewNoteService(rm)

	var exporter rest.Exporter
	if c.ExportEnabled() {
		exporter = services.NewExportService(rm, c)
	}

	handlers := rest.NewHandlers(logger, us, ns, exporter, c.StoreTimeout)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		rest:        rest.NewServer(c.HTTPAddr, logger, handlers),
		health:      gs.NewHealthServer(c.GRPCAddr, logger, rm, c.HealthInterval, c.StoreTimeout),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a shutdown signal arrives, ctx is cancelled or either
// server fails; then it stops both and closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.rest.Run(ctx); err != nil {
			app.logger.Error(ctx, "REST server failed", logging.Err(err))
			cancelFunc()
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.health.Run(ctx); err != nil {
			app.logger.Error(ctx, "gRPC server failed", logging.Err(err))
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing store", logging.Err(err))
	}
	app.logger.Info(ctx, "App stopped")
}
