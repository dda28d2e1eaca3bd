package bootstrap

import (
	"log/slog"

	ordersmemory "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/persistence/postgres"
	ordersredis "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/redis"
	ordersports "github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

func BuildOrderRepository(infra *Infra, logger *slog.Logger) ordersports.Repository {
	if infra.DB == nil {
		logger.Warn("order repository running in memory")
		return ordersmemory.NewRepository()
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(infra.DB)
}

func BuildDeduplicator(cfg Config, infra *Infra, logger *slog.Logger) ordersports.EventDeduplicator {
	if infra.Redis == nil {
		logger.Warn("change event deduplication running in memory")
		return ordersmemory.NewDeduplicator(cfg.DedupTTL)
	}
	return ordersredis.NewDeduplicator(infra.Redis, cfg.DedupTTL)
}

func BuildIdempotencyStore(infra *Infra) ordersports.IdempotencyStore {
	if infra.DB == nil {
		return ordersmemory.NewIdempotencyStore()
	}
	return orderspostgres.NewIdempotencyStore(infra.DB)
}
