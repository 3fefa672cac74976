// Package state reconciles reference tables (subscription types, images)
// against declared JSON state files, and reports on migration state.
package state

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/browseterm/browseterm-db/internal/db"
	"github.com/browseterm/browseterm-db/internal/domain"
	"github.com/browseterm/browseterm-db/internal/migrate"
	"github.com/browseterm/browseterm-db/internal/migrations"
	"github.com/browseterm/browseterm-db/internal/repository"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

//go:embed states/*.json
var defaultStates embed.FS

// Manager keeps the reference tables in line with the declared state.
// Diffing is by name: declared-only rows are created, shared rows are
// updated in place, database-only rows are soft-deleted. Orders and
// subscriptions are never touched.
type Manager struct {
	types  repository.SubscriptionTypeRepository
	images repository.ImageRepository
	engine *migrate.Engine
	client *db.Client
	log    *logger.Logger
	// statesDir overrides the embedded defaults when non-empty.
	statesDir string
}

// NewManager creates a Manager. engine may be nil when only Sync is used;
// client may be nil when Status does not need row counts.
func NewManager(
	types repository.SubscriptionTypeRepository,
	images repository.ImageRepository,
	engine *migrate.Engine,
	client *db.Client,
	statesDir string,
	log *logger.Logger,
) *Manager {
	return &Manager{
		types:     types,
		images:    images,
		engine:    engine,
		client:    client,
		statesDir: statesDir,
		log:       log,
	}
}

func (m *Manager) loadStateFile(name string, v any) error {
	var (
		b   []byte
		err error
	)
	if m.statesDir != "" {
		b, err = os.ReadFile(filepath.Join(m.statesDir, name))
	} else {
		b, err = defaultStates.ReadFile("states/" + name)
	}
	if err != nil {
		return fmt.Errorf("read state file %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse state file %s: %w", name, err)
	}
	return nil
}

// Sync reconciles both reference tables.
func (m *Manager) Sync(ctx context.Context) error {
	if err := m.syncSubscriptionTypes(ctx); err != nil {
		return fmt.Errorf("sync subscription types: %w", err)
	}
	if err := m.syncImages(ctx); err != nil {
		return fmt.Errorf("sync images: %w", err)
	}
	return nil
}

func (m *Manager) syncSubscriptionTypes(ctx context.Context) error {
	var declared []domain.SubscriptionType
	if err := m.loadStateFile("subscription_types.json", &declared); err != nil {
		return err
	}

	existing, err := m.types.List(ctx, true)
	if err != nil {
		return err
	}

	byName := make(map[string]domain.SubscriptionType, len(declared))
	declaredNames := make([]string, 0, len(declared))
	for _, st := range declared {
		byName[st.Name] = st
		declaredNames = append(declaredNames, st.Name)
	}
	dbNames := make([]string, 0, len(existing))
	for _, st := range existing {
		dbNames = append(dbNames, st.Name)
	}

	d := diffNames(declaredNames, dbNames)
	for _, name := range d.OnlyDeclared {
		st := byName[name]
		if err := m.types.Create(ctx, &st); err != nil {
			return err
		}
		m.log.Info("Created subscription type %q", name)
	}
	for _, name := range d.Common {
		st := byName[name]
		if err := m.types.UpdateByName(ctx, &st); err != nil {
			return err
		}
		m.log.Debug("Updated subscription type %q", name)
	}
	for _, name := range d.OnlyDatabase {
		if err := m.types.SoftDeleteByName(ctx, name); err != nil {
			return err
		}
		m.log.Info("Retired subscription type %q", name)
	}
	return nil
}

func (m *Manager) syncImages(ctx context.Context) error {
	var declared []domain.Image
	if err := m.loadStateFile("images.json", &declared); err != nil {
		return err
	}

	existing, err := m.images.List(ctx, true)
	if err != nil {
		return err
	}

	byName := make(map[string]domain.Image, len(declared))
	declaredNames := make([]string, 0, len(declared))
	for _, img := range declared {
		byName[img.Name] = img
		declaredNames = append(declaredNames, img.Name)
	}
	dbNames := make([]string, 0, len(existing))
	for _, img := range existing {
		dbNames = append(dbNames, img.Name)
	}

	d := diffNames(declaredNames, dbNames)
	for _, name := range d.OnlyDeclared {
		img := byName[name]
		if err := m.images.Create(ctx, &img); err != nil {
			return err
		}
		m.log.Info("Created image %q", name)
	}
	for _, name := range d.Common {
		img := byName[name]
		if err := m.images.UpdateByName(ctx, &img); err != nil {
			return err
		}
		m.log.Debug("Updated image %q", name)
	}
	for _, name := range d.OnlyDatabase {
		if err := m.images.SoftDeleteByName(ctx, name); err != nil {
			return err
		}
		m.log.Info("Retired image %q", name)
	}
	return nil
}

// Report describes the migration and data state of the target database.
type Report struct {
	Version   int64          `json:"version"`
	Applied   int            `json:"applied"`
	Pending   []string       `json:"pending,omitempty"`
	RowCounts map[string]int `json:"row_counts,omitempty"`
}

// Status reports the applied migration version, any pending scripts, and
// per-table row counts. Counts are operational visibility only: a table
// that cannot be counted (not yet created, say) is skipped.
func (m *Manager) Status(ctx context.Context) (Report, error) {
	if m.engine == nil {
		return Report{}, fmt.Errorf("no migration engine configured")
	}
	applied, err := m.engine.Applied(ctx)
	if err != nil {
		return Report{}, err
	}
	pending, err := m.engine.Pending(ctx)
	if err != nil {
		return Report{}, err
	}

	r := Report{Applied: len(applied)}
	if len(applied) > 0 {
		r.Version = applied[len(applied)-1].Version
	}
	for _, p := range pending {
		r.Pending = append(r.Pending, p.UpFilename())
	}

	if m.client != nil {
		r.RowCounts = make(map[string]int, len(migrations.Tables))
		for _, table := range migrations.Tables {
			var n int
			if err := m.client.DB().GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
				m.log.Debug("Skipping row count for %s: %v", table, err)
				continue
			}
			r.RowCounts[table] = n
		}
	}
	return r, nil
}
