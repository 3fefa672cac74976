package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/browseterm/browseterm-db/internal/domain"
)

func TestDeleteUserCascadesContainersAndSubscription(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createUser(t, pool)
	plan := createPlan(t, pool)
	img := createImage(t, pool)
	sub := createSubscription(t, pool, user.ID, plan.ID)

	containers := NewContainerRepository(pool, testLogger())
	container := domain.Container{
		UserID:      user.ID,
		ImageID:     &img.ID,
		Name:        "dev-shell",
		Status:      domain.ContainerStatusPending,
		CPULimit:    domain.DefaultCPULimit,
		MemoryLimit: domain.DefaultMemoryLimit,
	}
	require.NoError(t, containers.Create(ctx, &container))

	require.NoError(t, NewUserRepository(pool, testLogger()).Delete(ctx, user.ID))

	_, err := containers.GetByID(ctx, container.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = NewSubscriptionRepository(pool, testLogger()).GetByID(ctx, sub.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteUserRestrictedByOrders(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createUser(t, pool)
	plan := createPlan(t, pool)
	createOrder(t, pool, user.ID, nil, plan.ID)

	err := NewUserRepository(pool, testLogger()).Delete(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrRestricted)

	// The user row survives the refused delete.
	_, err = NewUserRepository(pool, testLogger()).GetByID(ctx, user.ID)
	require.NoError(t, err)
}

func TestDeleteImageNullsContainerReference(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createUser(t, pool)
	img := createImage(t, pool)

	containers := NewContainerRepository(pool, testLogger())
	container := domain.Container{
		UserID:      user.ID,
		ImageID:     &img.ID,
		Name:        "dev-shell",
		Status:      domain.ContainerStatusRunning,
		CPULimit:    domain.DefaultCPULimit,
		MemoryLimit: domain.DefaultMemoryLimit,
	}
	require.NoError(t, containers.Create(ctx, &container))

	_, err := pool.Exec(ctx, "DELETE FROM images WHERE id = $1", img.ID)
	require.NoError(t, err)

	got, err := containers.GetByID(ctx, container.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImageID)
}

func TestDeleteSubscriptionNullsOrderReference(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createUser(t, pool)
	plan := createPlan(t, pool)
	sub := createSubscription(t, pool, user.ID, plan.ID)
	order := createOrder(t, pool, user.ID, &sub.ID, plan.ID)

	require.NoError(t, NewSubscriptionRepository(pool, testLogger()).Delete(ctx, sub.ID))

	got, err := NewOrderRepository(pool, testLogger()).GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SubscriptionID)
}

func TestDeletePlanRestrictedBySubscription(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createUser(t, pool)
	plan := createPlan(t, pool)
	createSubscription(t, pool, user.ID, plan.ID)

	err := NewSubscriptionTypeRepository(pool, testLogger()).Delete(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrRestricted)
}

func TestDeletePlanRestrictedByOrder(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createUser(t, pool)
	plan := createPlan(t, pool)
	createOrder(t, pool, user.ID, nil, plan.ID)

	err := NewSubscriptionTypeRepository(pool, testLogger()).Delete(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrRestricted)
}

func TestUserHoldsAtMostOneSubscription(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createUser(t, pool)
	plan := createPlan(t, pool)
	createSubscription(t, pool, user.ID, plan.ID)

	second := domain.Subscription{
		UserID:             user.ID,
		SubscriptionTypeID: plan.ID,
		Status:             domain.SubscriptionStatusPending,
	}
	err := NewSubscriptionRepository(pool, testLogger()).Create(ctx, &second)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDuplicateUserEmailRejected(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createUser(t, pool)

	dup := domain.User{
		Email:      user.Email,
		Provider:   domain.AuthProviderGithub,
		ProviderID: "other",
		IsActive:   true,
	}
	err := NewUserRepository(pool, testLogger()).Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestContainerWithUnknownUserRejected(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	container := domain.Container{
		UserID:      uuid.New(),
		Name:        "orphan",
		Status:      domain.ContainerStatusPending,
		CPULimit:    domain.DefaultCPULimit,
		MemoryLimit: domain.DefaultMemoryLimit,
	}
	err := NewContainerRepository(pool, testLogger()).Create(ctx, &container)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
