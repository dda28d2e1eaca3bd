package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	invmemory "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/adapters/memory"
	invpostgres "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/adapters/persistence/postgres"
	invredis "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/adapters/redis"
	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/adapters/resilience"
	invapp "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/application"
	invports "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
)

// BuildInventory selects the inventory backend, seeds it and applies the
// optional reserve retry policy.
func BuildInventory(ctx context.Context, cfg Config, infra *Infra, logger *slog.Logger) (invports.Store, *invapp.Service, error) {
	var store invports.Store
	backend := cfg.InventoryBackend
	switch {
	case backend == InventoryPostgres && infra.DB != nil:
		store = invpostgres.NewStore(infra.DB)
	case backend == InventoryRedis && infra.Redis != nil:
		store = invredis.NewStore(infra.Redis)
	default:
		if backend != InventoryMemory {
			logger.Warn("inventory backend unavailable, falling back to in-memory store", slog.String("backend", backend))
		}
		backend = InventoryMemory
		store = invmemory.NewStore()
	}
	logger.Info("inventory store configured", slog.String("backend", backend))

	service := invapp.NewService(store)
	if cfg.InventorySeed {
		// Shared stores keep the stock another process already reserved against.
		onlyMissing := backend != InventoryMemory
		if err := service.Seed(ctx, onlyMissing); err != nil {
			return nil, nil, fmt.Errorf("seed inventory: %w", err)
		}
	}
	retrying := resilience.Wrap(store, cfg.InventoryReserveRetries, resilience.WithLogger(logger))
	return retrying, service, nil
}
