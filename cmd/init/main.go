// Command init performs a destructive first-time database setup: it drops
// all managed tables and types, applies every migration and seeds the
// reference tables from the declared state files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/browseterm/browseterm-db/internal/app"
	"github.com/browseterm/browseterm-db/internal/repository/postgres"
	"github.com/browseterm/browseterm-db/internal/state"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

func main() {
	log := logger.New(logger.LevelFromEnv())
	if err := run(log); err != nil {
		log.Error("Init failed: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Warn("Resetting database %s, all data will be lost", a.Config.Database.Database)
	if err := a.Reset(ctx); err != nil {
		return err
	}
	if err := a.Engine.Up(ctx); err != nil {
		return err
	}
	version, err := a.Engine.Version(ctx)
	if err != nil {
		return err
	}
	log.Info("Schema initialized at version %d", version)

	pool, err := postgres.NewPool(ctx, a.Config.Database.DSN(), log)
	if err != nil {
		return err
	}
	defer pool.Close()

	manager := state.NewManager(
		postgres.NewSubscriptionTypeRepository(pool, log),
		postgres.NewImageRepository(pool, log),
		a.Engine,
		a.Client,
		a.Config.StatesDir,
		log,
	)
	if err := manager.Sync(ctx); err != nil {
		return err
	}
	log.Info("Database initialization complete")
	return nil
}
