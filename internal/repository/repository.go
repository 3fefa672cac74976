// Package repository defines the persistence interfaces for the browseterm
// schema. Postgres implementations live in the postgres subpackage; the
// memory subpackage backs tests and offline tooling.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/browseterm/browseterm-db/internal/domain"
)

// UserRepository persists users. Users are soft-deleted via Deactivate;
// Delete removes the row and is expected to fail with ErrRestricted while
// orders reference the user.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context, includeInactive bool) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageRepository persists container images, reference data owned by the
// state manager.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) error
	GetByName(ctx context.Context, name string) (domain.Image, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Image, error)
	UpdateByName(ctx context.Context, image *domain.Image) error
	SoftDeleteByName(ctx context.Context, name string) error
}

// ContainerRepository persists containers.
type ContainerRepository interface {
	Create(ctx context.Context, container *domain.Container) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Container, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Container, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContainerStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionTypeRepository persists plans, reference data owned by the
// state manager. Delete is restricted while subscriptions or orders
// reference the plan.
type SubscriptionTypeRepository interface {
	Create(ctx context.Context, st *domain.SubscriptionType) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.SubscriptionType, error)
	GetByType(ctx context.Context, typ string) (domain.SubscriptionType, error)
	List(ctx context.Context, includeInactive bool) ([]domain.SubscriptionType, error)
	UpdateByName(ctx context.Context, st *domain.SubscriptionType) error
	SoftDeleteByName(ctx context.Context, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionRepository persists the one-per-user subscription rows.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Subscription, error)
	// ChangeStatus validates the move against the subscription state
	// machine before writing it.
	ChangeStatus(ctx context.Context, id uuid.UUID, next domain.SubscriptionStatus) error
	Update(ctx context.Context, sub *domain.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository persists orders. There is deliberately no delete: orders
// are the audit trail.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paidAt *time.Time) error
}
