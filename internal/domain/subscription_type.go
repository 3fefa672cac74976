package domain

import (
	"time"

	"github.com/google/uuid"
)

// Currency is the ISO code a price is denominated in.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// SubscriptionType is a purchasable plan. Plans referenced by paid orders
// must stay immutable for audit, which the schema enforces with
// delete-restrict foreign keys; pricing changes are rolled out as new rows.
type SubscriptionType struct {
	ID                      uuid.UUID `json:"id"`
	Name                    string    `json:"name"`
	Type                    string    `json:"type"`
	Amount                  float64   `json:"amount"`
	Currency                Currency  `json:"currency"`
	DurationDays            int       `json:"duration_days"`
	MaxContainers           int       `json:"max_containers"`
	CPULimitPerContainer    string    `json:"cpu_limit_per_container"`
	MemoryLimitPerContainer string    `json:"memory_limit_per_container"`
	Description             *string   `json:"description,omitempty"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
