//go:build integration

package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)
	client := goredis.NewClient(opts)

	cleanup := func() {
		_ = client.Close()
		_ = container.Terminate(ctx)
	}
	return client, cleanup
}

func TestStore_ReserveReleaseRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewStore(client, WithKeyPrefix("test:inventory:"))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.Item{Name: "mouse", Stock: 2, Price: decimal.RequireFromString("29.99")}))

	require.NoError(t, store.TryReserve(ctx, "mouse", 2))
	assert.ErrorIs(t, store.TryReserve(ctx, "mouse", 1), ports.ErrInsufficientStock)
	assert.ErrorIs(t, store.TryReserve(ctx, "ghost", 1), ports.ErrNotFound)

	require.NoError(t, store.Release(ctx, "mouse", 1))
	assert.ErrorIs(t, store.Release(ctx, "ghost", 1), ports.ErrNotFound)

	item, err := store.Get(ctx, "mouse")
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Stock)
	assert.Equal(t, "29.99", item.Price.StringFixed(2))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
