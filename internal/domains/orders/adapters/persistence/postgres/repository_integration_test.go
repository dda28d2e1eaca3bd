//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
	"github.com/Apurer/go-order-fulfillment/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("fulfillment_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("o-1", "Ada", []string{"mouse", "mouse", "keyboard"}, time.Now())
	require.NoError(t, err)

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.Items, created.Items)
	assert.Equal(t, domain.StatusPending, created.Status)

	_, err = repo.Create(ctx, order)
	require.ErrorIs(t, err, ports.ErrAlreadyExists)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_RecordStatusKeepsIntakeColumns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("o-2", "Ada", []string{"laptop"}, time.Now())
	require.NoError(t, err)
	_, err = repo.Create(ctx, order)
	require.NoError(t, err)

	update := &domain.Order{ID: "o-2", CustomerName: domain.UnknownCustomer, Items: []string{"laptop"}}
	require.NoError(t, update.UpdateStatus(domain.StatusFailed, domain.ReasonReservationFailed, time.Now()))
	require.NoError(t, repo.RecordStatus(ctx, update))

	fetched, err := repo.GetByID(ctx, "o-2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, fetched.Status)
	assert.Equal(t, domain.ReasonReservationFailed, fetched.StatusReason)
	assert.Equal(t, "Ada", fetched.CustomerName)
}

func TestRepository_RecordStatusInsertsMissingOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := &domain.Order{ID: "o-3", CustomerName: "Bob", Items: []string{"monitor"}}
	require.NoError(t, order.UpdateStatus(domain.StatusProcessing, "", time.Now()))
	require.NoError(t, repo.RecordStatus(ctx, order))

	fetched, err := repo.GetByID(ctx, "o-3")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, fetched.Status)
	assert.Equal(t, []string{"monitor"}, fetched.Items)
}

func TestIdempotencyStore_ConflictOnDifferentOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "retry-1", RequestHash: "abc", OrderID: "o-1"})
	require.NoError(t, err)

	replayed, err := store.Save(ctx, ports.IdempotencyRecord{Key: "retry-1", RequestHash: "abc", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", replayed.OrderID)

	stored, err := store.Save(ctx, ports.IdempotencyRecord{Key: "retry-1", RequestHash: "abc", OrderID: "o-2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "o-1", stored.OrderID)

	missing, err := store.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
