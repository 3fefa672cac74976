package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/browseterm/browseterm-db/internal/db"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

// Observer receives the outcome of each migration step. The Prometheus
// implementation lives in internal/metrics.
type Observer interface {
	StepApplied(direction string, seconds float64)
	StepFailed(direction string)
}

// Config tunes an Engine.
type Config struct {
	// Driver is the database driver name: "pgx" or "sqlite".
	Driver string
	// VersionTable is the table that records applied versions.
	// Defaults to "schema_migrations".
	VersionTable string
}

// Engine applies migrations from a Source against one database.
//
// Every step runs in its own transaction together with its version-table
// write, so a failed step leaves the database at the previous recorded
// version. Re-running with nothing pending is a no-op.
type Engine struct {
	client   *db.Client
	src      *Source
	dialect  Dialect
	table    string
	log      *logger.Logger
	observer Observer
}

// NewEngine creates an Engine for the given client and migration source.
func NewEngine(client *db.Client, src *Source, cfg Config, log *logger.Logger) (*Engine, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	table := cfg.VersionTable
	if table == "" {
		table = "schema_migrations"
	}
	return &Engine{
		client:  client,
		src:     src,
		dialect: dialect,
		table:   table,
		log:     log,
	}, nil
}

// SetObserver attaches a step observer.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// MigrationError names the script that failed.
type MigrationError struct {
	Version   int64
	Name      string
	Direction string
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %04d_%s.%s.sql failed: %v", e.Version, e.Name, e.Direction, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// ChecksumError reports an applied migration whose script was edited after
// the fact.
type ChecksumError struct {
	Version int64
	Name    string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch for applied migration %04d_%s: the up script was modified", e.Version, e.Name)
}

func (e *Engine) ensureVersionTable(ctx context.Context) error {
	if _, err := e.client.DB().ExecContext(ctx, e.dialect.CreateVersionTable(e.table)); err != nil {
		return fmt.Errorf("create version table %s: %w", e.table, err)
	}
	return nil
}

// Applied returns the recorded version rows in ascending order.
func (e *Engine) Applied(ctx context.Context) ([]Record, error) {
	if err := e.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	var records []Record
	if err := e.client.DB().SelectContext(ctx, &records, e.dialect.SelectVersions(e.table)); err != nil {
		return nil, fmt.Errorf("select applied versions: %w", err)
	}
	return records, nil
}

// Version returns the highest applied version, or 0 for a fresh database.
func (e *Engine) Version(ctx context.Context) (int64, error) {
	records, err := e.Applied(ctx)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	return records[len(records)-1].Version, nil
}

// Pending returns declared migrations that have not been applied yet.
func (e *Engine) Pending(ctx context.Context) ([]Migration, error) {
	records, err := e.Applied(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[int64]bool, len(records))
	for _, r := range records {
		applied[r.Version] = true
	}
	var pending []Migration
	for _, m := range e.src.Migrations() {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Up applies every pending migration in version order.
func (e *Engine) Up(ctx context.Context) error {
	return e.UpTo(ctx, e.src.MaxVersion())
}

// UpTo applies pending migrations up to and including target.
func (e *Engine) UpTo(ctx context.Context, target int64) error {
	records, err := e.Applied(ctx)
	if err != nil {
		return err
	}
	if err := e.verifyChecksums(records); err != nil {
		return err
	}

	applied := make(map[int64]bool, len(records))
	for _, r := range records {
		applied[r.Version] = true
	}

	ran := 0
	for _, m := range e.src.Migrations() {
		if m.Version > target || applied[m.Version] {
			continue
		}
		if err := e.applyUp(ctx, m); err != nil {
			return err
		}
		ran++
	}
	if ran == 0 {
		e.log.Info("Database is up to date, nothing to apply")
	} else {
		e.log.Info("Applied %d migration(s)", ran)
	}
	return nil
}

// Down reverts the last n applied migrations using their down scripts.
func (e *Engine) Down(ctx context.Context, n int) error {
	records, err := e.Applied(ctx)
	if err != nil {
		return err
	}
	if n > len(records) {
		n = len(records)
	}
	for i := 0; i < n; i++ {
		r := records[len(records)-1-i]
		m, ok := e.src.Get(r.Version)
		if !ok {
			return fmt.Errorf("applied version %d (%s) is not present in the migration source", r.Version, r.Name)
		}
		if err := e.applyDown(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// verifyChecksums compares recorded checksums against the current scripts.
// A version recorded in the database but absent from the source only gets a
// warning: older deployments may carry history that predates a squash.
func (e *Engine) verifyChecksums(records []Record) error {
	for _, r := range records {
		m, ok := e.src.Get(r.Version)
		if !ok {
			e.log.Warn("Applied version %d (%s) not found in migration source", r.Version, r.Name)
			continue
		}
		if m.Checksum() != r.Checksum {
			return &ChecksumError{Version: r.Version, Name: r.Name}
		}
	}
	return nil
}

func (e *Engine) applyUp(ctx context.Context, m Migration) error {
	e.log.Info("Applying %s", m.UpFilename())
	start := time.Now()

	tx, err := e.client.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
		tx.Rollback()
		e.observeFailure("up")
		return &MigrationError{Version: m.Version, Name: m.Name, Direction: "up", Err: err}
	}
	if _, err := tx.ExecContext(ctx, e.dialect.InsertVersion(e.table), m.Version, m.Name, m.Checksum()); err != nil {
		tx.Rollback()
		e.observeFailure("up")
		return &MigrationError{Version: m.Version, Name: m.Name, Direction: "up", Err: fmt.Errorf("record version: %w", err)}
	}
	if err := tx.Commit(); err != nil {
		e.observeFailure("up")
		return &MigrationError{Version: m.Version, Name: m.Name, Direction: "up", Err: fmt.Errorf("commit: %w", err)}
	}

	e.observeSuccess("up", time.Since(start))
	return nil
}

func (e *Engine) applyDown(ctx context.Context, m Migration) error {
	e.log.Info("Reverting %s", m.DownFilename())
	start := time.Now()

	tx, err := e.client.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, m.DownSQL); err != nil {
		tx.Rollback()
		e.observeFailure("down")
		return &MigrationError{Version: m.Version, Name: m.Name, Direction: "down", Err: err}
	}
	if _, err := tx.ExecContext(ctx, e.dialect.DeleteVersion(e.table), m.Version); err != nil {
		tx.Rollback()
		e.observeFailure("down")
		return &MigrationError{Version: m.Version, Name: m.Name, Direction: "down", Err: fmt.Errorf("delete version: %w", err)}
	}
	if err := tx.Commit(); err != nil {
		e.observeFailure("down")
		return &MigrationError{Version: m.Version, Name: m.Name, Direction: "down", Err: fmt.Errorf("commit: %w", err)}
	}

	e.observeSuccess("down", time.Since(start))
	return nil
}

func (e *Engine) observeSuccess(direction string, d time.Duration) {
	if e.observer != nil {
		e.observer.StepApplied(direction, d.Seconds())
	}
}

func (e *Engine) observeFailure(direction string) {
	if e.observer != nil {
		e.observer.StepFailed(direction)
	}
}
