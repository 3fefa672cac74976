package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/browseterm/browseterm-db/internal/domain"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

// SubscriptionTypeRepository is the pgxpool implementation of
// repository.SubscriptionTypeRepository.
type SubscriptionTypeRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewSubscriptionTypeRepository creates a SubscriptionTypeRepository.
func NewSubscriptionTypeRepository(db *pgxpool.Pool, log *logger.Logger) *SubscriptionTypeRepository {
	return &SubscriptionTypeRepository{db: db, log: log}
}

const subscriptionTypeColumns = `id, name, type, amount, currency, duration_days, max_containers,
	cpu_limit_per_container, memory_limit_per_container, description, is_active,
	created_at, updated_at`

func scanSubscriptionType(row pgx.Row) (domain.SubscriptionType, error) {
	var st domain.SubscriptionType
	err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Type,
		&st.Amount,
		&st.Currency,
		&st.DurationDays,
		&st.MaxContainers,
		&st.CPULimitPerContainer,
		&st.MemoryLimitPerContainer,
		&st.Description,
		&st.IsActive,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	return st, err
}

// Create inserts a plan. Defaults mirror the schema defaults.
func (r *SubscriptionTypeRepository) Create(ctx context.Context, st *domain.SubscriptionType) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.Currency == "" {
		st.Currency = domain.CurrencyINR
	}
	if st.CPULimitPerContainer == "" {
		st.CPULimitPerContainer = domain.DefaultCPULimit
	}
	if st.MemoryLimitPerContainer == "" {
		st.MemoryLimitPerContainer = domain.DefaultMemoryLimit
	}

	query := `
		INSERT INTO subscription_types (id, name, type, amount, currency, duration_days,
			max_containers, cpu_limit_per_container, memory_limit_per_container, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		st.ID, st.Name, st.Type, st.Amount, st.Currency, st.DurationDays,
		st.MaxContainers, st.CPULimitPerContainer, st.MemoryLimitPerContainer,
		st.Description, st.IsActive,
	).Scan(&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "subscription type", st.Type)
	}

	r.log.Debug("Created subscription type %s", st.Type)
	return nil
}

// GetByID returns the plan with the given id.
func (r *SubscriptionTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.SubscriptionType, error) {
	query := fmt.Sprintf("SELECT %s FROM subscription_types WHERE id = $1", subscriptionTypeColumns)
	st, err := scanSubscriptionType(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SubscriptionType{}, domain.NewNotFoundError("subscription type", id.String())
		}
		return domain.SubscriptionType{}, fmt.Errorf("failed to get subscription type: %w", err)
	}
	return st, nil
}

// GetByType returns the plan with the given internal type identifier.
func (r *SubscriptionTypeRepository) GetByType(ctx context.Context, typ string) (domain.SubscriptionType, error) {
	query := fmt.Sprintf("SELECT %s FROM subscription_types WHERE type = $1", subscriptionTypeColumns)
	st, err := scanSubscriptionType(r.db.QueryRow(ctx, query, typ))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SubscriptionType{}, domain.NewNotFoundError("subscription type", typ)
		}
		return domain.SubscriptionType{}, fmt.Errorf("failed to get subscription type: %w", err)
	}
	return st, nil
}

// List returns plans, excluding retired ones unless includeInactive.
func (r *SubscriptionTypeRepository) List(ctx context.Context, includeInactive bool) ([]domain.SubscriptionType, error) {
	query := fmt.Sprintf("SELECT %s FROM subscription_types", subscriptionTypeColumns)
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY amount"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription types: %w", err)
	}
	defer rows.Close()

	var types []domain.SubscriptionType
	for rows.Next() {
		st, err := scanSubscriptionType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription type: %w", err)
		}
		types = append(types, st)
	}
	return types, rows.Err()
}

// UpdateByName rewrites a plan's mutable fields, keyed by display name.
// The state manager diffs reference data by name, so name is the handle.
func (r *SubscriptionTypeRepository) UpdateByName(ctx context.Context, st *domain.SubscriptionType) error {
	query := `
		UPDATE subscription_types
		SET type = $2, amount = $3, currency = $4, duration_days = $5, max_containers = $6,
			cpu_limit_per_container = $7, memory_limit_per_container = $8,
			description = $9, is_active = $10, updated_at = now()
		WHERE name = $1
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		st.Name, st.Type, st.Amount, st.Currency, st.DurationDays, st.MaxContainers,
		st.CPULimitPerContainer, st.MemoryLimitPerContainer, st.Description, st.IsActive,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("subscription type", st.Name)
		}
		return mapWriteErr(err, "subscription type", st.Name)
	}
	return nil
}

// SoftDeleteByName retires a plan without touching rows that reference it.
func (r *SubscriptionTypeRepository) SoftDeleteByName(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE subscription_types SET is_active = FALSE, updated_at = now() WHERE name = $1", name)
	if err != nil {
		return fmt.Errorf("failed to soft-delete subscription type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("subscription type", name)
	}
	return nil
}

// Delete removes a plan row. Any referencing subscription or order makes
// this fail with ErrRestricted.
func (r *SubscriptionTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM subscription_types WHERE id = $1", id)
	if err != nil {
		return mapDeleteErr(err, "subscription type", id.String())
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("subscription type", id.String())
	}
	return nil
}
