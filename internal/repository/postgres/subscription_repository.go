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

// SubscriptionRepository is the pgxpool implementation of
// repository.SubscriptionRepository.
type SubscriptionRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewSubscriptionRepository creates a SubscriptionRepository.
func NewSubscriptionRepository(db *pgxpool.Pool, log *logger.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, log: log}
}

const subscriptionColumns = `id, user_id, subscription_type_id, status, auto_renew,
	valid_until, cancelled_at, created_at, updated_at`

func scanSubscription(row pgx.Row) (domain.Subscription, error) {
	var s domain.Subscription
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.SubscriptionTypeID,
		&s.Status,
		&s.AutoRenew,
		&s.ValidUntil,
		&s.CancelledAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// Create inserts a subscription. The unique user_id constraint enforces
// one subscription per user; a second insert surfaces ErrDuplicate.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.Status == "" {
		sub.Status = domain.SubscriptionStatusPending
	}

	query := `
		INSERT INTO subscriptions (id, user_id, subscription_type_id, status, auto_renew, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		sub.ID, sub.UserID, sub.SubscriptionTypeID, sub.Status, sub.AutoRenew, sub.ValidUntil,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "subscription", sub.UserID.String())
	}

	r.log.Debug("Created subscription %s for user %s", sub.ID, sub.UserID)
	return nil
}

// GetByID returns the subscription with the given id.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	query := fmt.Sprintf("SELECT %s FROM subscriptions WHERE id = $1", subscriptionColumns)
	s, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, domain.NewNotFoundError("subscription", id.String())
		}
		return domain.Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

// GetByUserID returns the user's subscription.
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Subscription, error) {
	query := fmt.Sprintf("SELECT %s FROM subscriptions WHERE user_id = $1", subscriptionColumns)
	s, err := scanSubscription(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, domain.NewNotFoundError("subscription", userID.String())
		}
		return domain.Subscription{}, fmt.Errorf("failed to get subscription by user: %w", err)
	}
	return s, nil
}

// ChangeStatus validates the transition against the state machine and
// writes it. Cancellation also stamps cancelled_at.
func (r *SubscriptionRepository) ChangeStatus(ctx context.Context, id uuid.UUID, next domain.SubscriptionStatus) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(next) {
		return &domain.TransitionError{From: current.Status, To: next}
	}

	query := "UPDATE subscriptions SET status = $2, updated_at = now() WHERE id = $1"
	if next == domain.SubscriptionStatusCancelled {
		query = "UPDATE subscriptions SET status = $2, cancelled_at = now(), updated_at = now() WHERE id = $1"
	}
	if _, err := r.db.Exec(ctx, query, id, next); err != nil {
		return fmt.Errorf("failed to change subscription status: %w", err)
	}
	return nil
}

// Update rewrites the mutable subscription fields.
func (r *SubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	query := `
		UPDATE subscriptions
		SET subscription_type_id = $2, status = $3, auto_renew = $4, valid_until = $5,
			cancelled_at = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		sub.ID, sub.SubscriptionTypeID, sub.Status, sub.AutoRenew, sub.ValidUntil, sub.CancelledAt,
	).Scan(&sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("subscription", sub.ID.String())
		}
		return mapWriteErr(err, "subscription", sub.ID.String())
	}
	return nil
}

// Delete removes the subscription row. Orders referencing it keep their
// row with subscription_id set to null.
func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM subscriptions WHERE id = $1", id)
	if err != nil {
		return mapDeleteErr(err, "subscription", id.String())
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("subscription", id.String())
	}
	return nil
}
