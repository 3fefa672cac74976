// Package db provides the database/sql-level client used by the migration
// engine and the state manager. Repositories use a pgxpool connection from
// internal/repository/postgres instead.
package db

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/browseterm/browseterm-db/pkg/logger"
)

// Client wraps an sqlx database handle.
type Client struct {
	db  *sqlx.DB
	log *logger.Logger
}

// Connect opens a connection via the pgx stdlib driver and verifies it.
func Connect(ctx context.Context, dsn string, log *logger.Logger) (*Client, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug("Connected to database")
	return &Client{db: db, log: log}, nil
}

// Wrap adopts an existing sqlx handle, used by tests that run on SQLite.
func Wrap(db *sqlx.DB, log *logger.Logger) *Client {
	return &Client{db: db, log: log}
}

// DB exposes the underlying sqlx handle.
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Close closes the database connection.
func (c *Client) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
