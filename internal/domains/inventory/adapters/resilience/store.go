package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
)

var _ ports.Store = (*RetryingStore)(nil)

// RetryingStore retries TryReserve a bounded number of times when the backing
// store reports an infrastructure failure. Insufficient stock and missing items
// are returned immediately. Release is never retried.
//
// TryReserve is not idempotent: a failure that may have happened after the
// decrement was applied (timeout, cancelled call, connection dropped mid-reply)
// is returned as is, because a retry would reserve the stock twice while
// compensation releases it once. Only failures that mean the request never
// reached the store, such as a refused dial, are retried.
type RetryingStore struct {
	ports.Store
	maxRetries uint64
	interval   time.Duration
	logger     *slog.Logger
}

// Option configures the retrying store.
type Option func(*RetryingStore)

// WithInitialInterval sets the first backoff interval.
func WithInitialInterval(d time.Duration) Option {
	return func(s *RetryingStore) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger attaches a logger for retry attempts.
func WithLogger(logger *slog.Logger) Option {
	return func(s *RetryingStore) {
		s.logger = logger
	}
}

// Wrap returns inner untouched when maxRetries is zero.
func Wrap(inner ports.Store, maxRetries uint64, opts ...Option) ports.Store {
	if maxRetries == 0 {
		return inner
	}
	s := &RetryingStore{Store: inner, maxRetries: maxRetries, interval: 50 * time.Millisecond}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RetryingStore) TryReserve(ctx context.Context, name string, quantity int64) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.interval
	policy.MaxElapsedTime = 0
	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, s.maxRetries), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := s.Store.TryReserve(ctx, name, quantity)
		if err == nil {
			return nil
		}
		if !ports.IsStoreError(err) || mayHaveApplied(err) {
			return backoff.Permanent(err)
		}
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "inventory reserve failed, retrying",
				slog.String("item", name), slog.Int("attempt", attempt), slog.String("error", err.Error()))
		}
		return err
	}, bounded)
}

// mayHaveApplied reports failures where the store could have committed the
// decrement before the caller lost the reply.
func mayHaveApplied(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op != "dial"
}
