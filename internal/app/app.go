// Package app wires the configuration, database client, migration engine
// and metrics for the CLI binaries.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/browseterm/browseterm-db/internal/config"
	"github.com/browseterm/browseterm-db/internal/db"
	"github.com/browseterm/browseterm-db/internal/metrics"
	"github.com/browseterm/browseterm-db/internal/migrate"
	"github.com/browseterm/browseterm-db/internal/migrations"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

// App is the assembled toolchain for one CLI invocation.
type App struct {
	Config   *config.Config
	Client   *db.Client
	Source   *migrate.Source
	Engine   *migrate.Engine
	Registry *prometheus.Registry
	Log      *logger.Logger
}

// New loads configuration, connects to the primary database and builds a
// migration engine over the active source.
func New(ctx context.Context, log *logger.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client, err := db.Connect(ctx, cfg.Database.DSN(), log)
	if err != nil {
		return nil, err
	}

	src, err := loadSource(cfg)
	if err != nil {
		client.Close()
		return nil, err
	}

	engine, err := migrate.NewEngine(client, src, migrate.Config{Driver: "pgx"}, log)
	if err != nil {
		client.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	engine.SetObserver(metrics.NewMigrationMetrics(registry, log))

	return &App{
		Config:   cfg,
		Client:   client,
		Source:   src,
		Engine:   engine,
		Registry: registry,
		Log:      log,
	}, nil
}

// loadSource prefers an on-disk migrations directory (scaffolded and
// hand-edited files) and falls back to the embedded schema set.
func loadSource(cfg *config.Config) (*migrate.Source, error) {
	if entries, err := os.ReadDir(cfg.MigrationsDir); err == nil && len(entries) > 0 {
		src, err := migrate.LoadSource(os.DirFS(cfg.MigrationsDir), ".")
		if err != nil {
			return nil, fmt.Errorf("load migrations from %s: %w", cfg.MigrationsDir, err)
		}
		if len(src.Migrations()) > 0 {
			return src, nil
		}
	}
	return migrations.Source()
}

// Reset drops every table and enum type the schema owns, including the
// version table. Destructive; only init uses it.
func (a *App) Reset(ctx context.Context) error {
	for _, table := range migrations.Tables {
		if _, err := a.Client.DB().ExecContext(ctx,
			fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	if _, err := a.Client.DB().ExecContext(ctx,
		"DROP TABLE IF EXISTS schema_migrations CASCADE"); err != nil {
		return fmt.Errorf("drop version table: %w", err)
	}
	for _, typ := range migrations.EnumTypes {
		if _, err := a.Client.DB().ExecContext(ctx,
			fmt.Sprintf("DROP TYPE IF EXISTS %s CASCADE", typ)); err != nil {
			return fmt.Errorf("drop type %s: %w", typ, err)
		}
	}
	a.Log.Info("Database reset complete")
	return nil
}

// Close releases the database connection and logs gathered metrics.
func (a *App) Close() {
	metrics.LogSummary(a.Registry, a.Log)
	if err := a.Client.Close(); err != nil {
		a.Log.Warn("Failed to close database: %v", err)
	}
}
