package bootstrap

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-fulfillment/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-order-fulfillment/internal/platform/postgres"
	platformredis "github.com/Apurer/go-order-fulfillment/internal/platform/redis"
)

// Infra holds the optional shared connections. Nil fields mean the
// dependency is not configured or unreachable.
type Infra struct {
	DB    *gorm.DB
	Redis goredis.UniversalClient

	cleanups []func()
}

// ConnectInfra dials Postgres and Redis when configured and migrates the schema.
func ConnectInfra(ctx context.Context, cfg Config, logger *slog.Logger) *Infra {
	infra := &Infra{}
	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	infra.cleanups = append(infra.cleanups, closeDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("schema migration failed, falling back to in-memory adapters", slog.String("error", err.Error()))
			closeDB()
			db = nil
		}
	}
	infra.DB = db
	rdb, closeRedis := platformredis.ConnectOptional(ctx, cfg.RedisAddr, logger)
	infra.Redis = rdb
	infra.cleanups = append(infra.cleanups, closeRedis)
	return infra
}

// Close releases every connection opened by ConnectInfra.
func (i *Infra) Close() {
	for j := len(i.cleanups) - 1; j >= 0; j-- {
		i.cleanups[j]()
	}
	i.cleanups = nil
}
