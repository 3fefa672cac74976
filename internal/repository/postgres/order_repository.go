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

// OrderRepository is the pgxpool implementation of
// repository.OrderRepository. Orders are append-only audit rows, so there
// is no delete.
type OrderRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewOrderRepository creates an OrderRepository.
func NewOrderRepository(db *pgxpool.Pool, log *logger.Logger) *OrderRepository {
	return &OrderRepository{db: db, log: log}
}

const orderColumns = `id, user_id, subscription_id, subscription_type_id, amount, currency,
	status, payment_method, payment_provider_id, paid_at, created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.SubscriptionID,
		&o.SubscriptionTypeID,
		&o.Amount,
		&o.Currency,
		&o.Status,
		&o.PaymentMethod,
		&o.PaymentProviderID,
		&o.PaidAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

// Create inserts an order. SubscriptionID stays nil for a first purchase.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.Currency == "" {
		order.Currency = domain.CurrencyINR
	}

	query := `
		INSERT INTO orders (id, user_id, subscription_id, subscription_type_id, amount,
			currency, status, payment_method, payment_provider_id, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		order.ID, order.UserID, order.SubscriptionID, order.SubscriptionTypeID,
		order.Amount, order.Currency, order.Status, order.PaymentMethod,
		order.PaymentProviderID, order.PaidAt,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "order", order.ID.String())
	}

	r.log.Debug("Created order %s for user %s", order.ID, order.UserID)
	return nil
}

// GetByID returns the order with the given id.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.NewNotFoundError("order", id.String())
		}
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC", orderColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus moves the order to a new payment status, stamping paid_at
// when supplied.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paidAt *time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE orders SET status = $2, paid_at = COALESCE($3, paid_at), updated_at = now() WHERE id = $1",
		id, status, paidAt)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("order", id.String())
	}
	return nil
}
