package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

var _ ports.EventDeduplicator = (*Deduplicator)(nil)

const defaultKeyPrefix = "idem:"

// Deduplicator marks delivered change events with SETNX so redeliveries are
// detected across worker processes.
type Deduplicator struct {
	rdb    goredis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewDeduplicator(rdb goredis.UniversalClient, ttl time.Duration) *Deduplicator {
	return &Deduplicator{rdb: rdb, ttl: ttl, prefix: defaultKeyPrefix}
}

func (d *Deduplicator) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, d.prefix+key, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (d *Deduplicator) Forget(ctx context.Context, key string) error {
	return d.rdb.Del(ctx, d.prefix+key).Err()
}
