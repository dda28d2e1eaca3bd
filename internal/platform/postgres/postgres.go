package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 20
	connMaxIdleTime = 5 * time.Minute
)

var errEmptyDSN = errors.New("postgres: empty DSN")

// Connect opens a pooled GORM handle and pings it before returning.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errEmptyDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// ConnectOptional returns a nil DB (and a no-op cleanup) when dsn is blank or
// unreachable so the caller can fall back to in-memory adapters.
func ConnectOptional(ctx context.Context, dsn string, log *slog.Logger) (*gorm.DB, func()) {
	if log == nil {
		log = slog.Default()
	}
	noop := func() {}
	db, err := Connect(ctx, dsn)
	switch {
	case errors.Is(err, errEmptyDSN):
		log.Warn("POSTGRES_DSN not set, using in-memory adapters")
		return nil, noop
	case err != nil:
		log.Warn("postgres unavailable, using in-memory adapters", slog.String("error", err.Error()))
		return nil, noop
	}
	log.Info("postgres connection established")
	return db, func() {
		if pool, err := db.DB(); err == nil {
			_ = pool.Close()
		}
	}
}
