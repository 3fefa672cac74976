package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/browseterm/browseterm-db/internal/domain"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

// UserRepository is the pgxpool implementation of repository.UserRepository.
type UserRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *pgxpool.Pool, log *logger.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

const userColumns = "id, email, provider, provider_id, is_active, last_login, created_at, updated_at"

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Provider,
		&u.ProviderID,
		&u.IsActive,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create inserts a user. A zero ID is assigned; CreatedAt/UpdatedAt are
// filled from the returned row.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if !user.Provider.Valid() {
		return fmt.Errorf("unknown auth provider %q: %w", user.Provider, domain.ErrInvalidInput)
	}

	query := `
		INSERT INTO users (id, email, provider, provider_id, is_active, last_login)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.Provider, user.ProviderID, user.IsActive, user.LastLogin,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "user", user.Email)
	}

	r.log.Debug("Created user %s", user.ID)
	return nil
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.NewNotFoundError("user", id.String())
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail returns the user with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.NewNotFoundError("user", email)
		}
		return domain.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// List returns users, excluding deactivated ones unless includeInactive.
func (r *UserRepository) List(ctx context.Context, includeInactive bool) ([]domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users", userColumns)
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY created_at"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update rewrites the mutable user fields.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, provider = $3, provider_id = $4, is_active = $5, last_login = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.Provider, user.ProviderID, user.IsActive, user.LastLogin,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("user", user.ID.String())
		}
		return mapWriteErr(err, "user", user.Email)
	}
	return nil
}

// RecordLogin stamps last_login.
func (r *UserRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1", id, at)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("user", id.String())
	}
	return nil
}

// Deactivate soft-deletes the user.
func (r *UserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("user", id.String())
	}
	return nil
}

// Delete removes the user row. Containers and the subscription cascade
// away with it; orders restrict the delete.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return mapDeleteErr(err, "user", id.String())
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("user", id.String())
	}
	return nil
}
