package simulated

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
)

const (
	DefaultPaymentDelay       = 500 * time.Millisecond
	DefaultPaymentSuccessRate = 0.9
)

var _ ports.PaymentGateway = (*Gateway)(nil)

// Gateway approves a fixed share of charges after a processing delay.
type Gateway struct {
	delay       time.Duration
	successRate float64
	rng         *lockedRand
	now         func() time.Time
}

type GatewayOption func(*gatewayConfig)

type gatewayConfig struct {
	delay       time.Duration
	successRate float64
	source      rand.Source
	now         func() time.Time
}

func WithPaymentDelay(d time.Duration) GatewayOption {
	return func(c *gatewayConfig) { c.delay = d }
}

func WithPaymentSuccessRate(rate float64) GatewayOption {
	return func(c *gatewayConfig) { c.successRate = rate }
}

// WithPaymentSource fixes the random source, e.g. for reproducible tests.
func WithPaymentSource(src rand.Source) GatewayOption {
	return func(c *gatewayConfig) { c.source = src }
}

func WithPaymentClock(now func() time.Time) GatewayOption {
	return func(c *gatewayConfig) { c.now = now }
}

func NewGateway(opts ...GatewayOption) *Gateway {
	cfg := gatewayConfig{delay: DefaultPaymentDelay, successRate: DefaultPaymentSuccessRate, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Gateway{
		delay:       cfg.delay,
		successRate: cfg.successRate,
		rng:         newLockedRand(cfg.source),
		now:         cfg.now,
	}
}

// Charge waits for the processing delay and then draws the outcome. The
// transaction id combines the order id with the current unix time.
func (g *Gateway) Charge(ctx context.Context, charge domain.Charge) (domain.ChargeResult, error) {
	if err := wait(ctx, g.delay); err != nil {
		return domain.ChargeResult{}, err
	}
	if g.rng.Float64() < g.successRate {
		return domain.ChargeResult{
			Approved:      true,
			TransactionID: fmt.Sprintf("txn_%s_%d", charge.OrderID, g.now().Unix()),
		}, nil
	}
	return domain.ChargeResult{DeclineReason: g.rng.Pick(domain.PaymentFailureReasons)}, nil
}
