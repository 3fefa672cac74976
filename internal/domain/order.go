package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the payment state of an order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusFailed   OrderStatus = "failed"
	OrderStatusRefunded OrderStatus = "refunded"
)

// Order is a payment record. Orders are audit rows: they are never deleted,
// and the schema restricts deleting any user or plan they reference.
//
// SubscriptionID is nullable because the first purchase happens before the
// subscription row exists; renewals and upgrades reference the existing
// subscription.
type Order struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"user_id"`
	SubscriptionID     *uuid.UUID  `json:"subscription_id,omitempty"`
	SubscriptionTypeID uuid.UUID   `json:"subscription_type_id"`
	Amount             float64     `json:"amount"`
	Currency           Currency    `json:"currency"`
	Status             OrderStatus `json:"status"`
	PaymentMethod      *string     `json:"payment_method,omitempty"`
	PaymentProviderID  *string     `json:"payment_provider_id,omitempty"`
	PaidAt             *time.Time  `json:"paid_at,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}
