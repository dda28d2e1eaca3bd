// Package redis dials the shared Redis client used for inventory counters and
// change-event deduplication.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect dials addr and verifies connectivity with PING.
func Connect(ctx context.Context, addr string) (goredis.UniversalClient, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:        strings.Split(addr, ","),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOptional returns nil and a no-op cleanup when addr is empty or unreachable.
func ConnectOptional(ctx context.Context, addr string, logger *slog.Logger) (goredis.UniversalClient, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(addr) == "" {
		logger.Warn("REDIS_ADDR not set, falling back to in-memory adapters")
		return nil, func() {}
	}
	client, err := Connect(ctx, addr)
	if err != nil {
		logger.Warn("failed to connect to redis, falling back to in-memory adapters", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("redis connection established", slog.String("addr", addr))
	return client, func() { _ = client.Close() }
}
