package postgres

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/browseterm/browseterm-db/internal/config"
	"github.com/browseterm/browseterm-db/internal/db"
	"github.com/browseterm/browseterm-db/internal/domain"
	"github.com/browseterm/browseterm-db/internal/migrate"
	"github.com/browseterm/browseterm-db/internal/migrations"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

// These tests exercise the real schema, including its foreign-key actions,
// so they need a disposable Postgres database. They are skipped unless the
// TEST_DB_* environment variables are set.

func testLogger() *logger.Logger {
	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)
	return log
}

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("TEST_DB_* not configured: %v", err)
	}
	log := testLogger()
	ctx := context.Background()

	client, err := db.Connect(ctx, cfg.Database.DSN(), log)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	resetDatabase(t, ctx, client)

	src, err := migrations.Source()
	require.NoError(t, err)
	engine, err := migrate.NewEngine(client, src, migrate.Config{Driver: "pgx"}, log)
	require.NoError(t, err)
	require.NoError(t, engine.Up(ctx))

	pool, err := NewPool(ctx, cfg.Database.DSN(), log)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func resetDatabase(t *testing.T, ctx context.Context, client *db.Client) {
	t.Helper()
	for _, table := range migrations.Tables {
		_, err := client.DB().ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table))
		require.NoError(t, err)
	}
	_, err := client.DB().ExecContext(ctx, "DROP TABLE IF EXISTS schema_migrations CASCADE")
	require.NoError(t, err)
	for _, typ := range migrations.EnumTypes {
		_, err := client.DB().ExecContext(ctx, fmt.Sprintf("DROP TYPE IF EXISTS %s CASCADE", typ))
		require.NoError(t, err)
	}
}

func createUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	user := domain.User{
		Email:      fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Provider:   domain.AuthProviderGoogle,
		ProviderID: uuid.NewString(),
		IsActive:   true,
	}
	require.NoError(t, NewUserRepository(pool, testLogger()).Create(context.Background(), &user))
	return user
}

func createPlan(t *testing.T, pool *pgxpool.Pool) domain.SubscriptionType {
	t.Helper()
	st := domain.SubscriptionType{
		Name:                    "Plan " + uuid.NewString()[:8],
		Type:                    "plan_" + uuid.NewString()[:8],
		Amount:                  100,
		Currency:                domain.CurrencyINR,
		DurationDays:            30,
		MaxContainers:           5,
		CPULimitPerContainer:    domain.DefaultCPULimit,
		MemoryLimitPerContainer: domain.DefaultMemoryLimit,
		IsActive:                true,
	}
	require.NoError(t, NewSubscriptionTypeRepository(pool, testLogger()).Create(context.Background(), &st))
	return st
}

func createImage(t *testing.T, pool *pgxpool.Pool) domain.Image {
	t.Helper()
	img := domain.Image{
		Name:     "img_" + uuid.NewString()[:8],
		Image:    "docker.io/library/ubuntu:24.04",
		IsActive: true,
	}
	require.NoError(t, NewImageRepository(pool, testLogger()).Create(context.Background(), &img))
	return img
}

func createSubscription(t *testing.T, pool *pgxpool.Pool, userID, planID uuid.UUID) domain.Subscription {
	t.Helper()
	sub := domain.Subscription{
		UserID:             userID,
		SubscriptionTypeID: planID,
		Status:             domain.SubscriptionStatusPending,
		ValidUntil:         time.Now().UTC().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, NewSubscriptionRepository(pool, testLogger()).Create(context.Background(), &sub))
	return sub
}

func createOrder(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, subID *uuid.UUID, planID uuid.UUID) domain.Order {
	t.Helper()
	order := domain.Order{
		UserID:             userID,
		SubscriptionID:     subID,
		SubscriptionTypeID: planID,
		Amount:             100,
		Currency:           domain.CurrencyINR,
		Status:             domain.OrderStatusPending,
	}
	require.NoError(t, NewOrderRepository(pool, testLogger()).Create(context.Background(), &order))
	return order
}
