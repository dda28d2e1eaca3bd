package simulated

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
)

const (
	DefaultShippingDelay       = 300 * time.Millisecond
	DefaultShippingSuccessRate = 0.95

	minDeliveryDays = 3
	maxDeliveryDays = 7
)

var _ ports.CarrierService = (*Carrier)(nil)

// Carrier books shipments with a randomly chosen carrier.
type Carrier struct {
	delay       time.Duration
	successRate float64
	rng         *lockedRand
	now         func() time.Time
}

type CarrierOption func(*carrierConfig)

type carrierConfig struct {
	delay       time.Duration
	successRate float64
	source      rand.Source
	now         func() time.Time
}

func WithShippingDelay(d time.Duration) CarrierOption {
	return func(c *carrierConfig) { c.delay = d }
}

func WithShippingSuccessRate(rate float64) CarrierOption {
	return func(c *carrierConfig) { c.successRate = rate }
}

func WithShippingSource(src rand.Source) CarrierOption {
	return func(c *carrierConfig) { c.source = src }
}

func WithShippingClock(now func() time.Time) CarrierOption {
	return func(c *carrierConfig) { c.now = now }
}

func NewCarrier(opts ...CarrierOption) *Carrier {
	cfg := carrierConfig{delay: DefaultShippingDelay, successRate: DefaultShippingSuccessRate, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Carrier{
		delay:       cfg.delay,
		successRate: cfg.successRate,
		rng:         newLockedRand(cfg.source),
		now:         cfg.now,
	}
}

func (c *Carrier) Schedule(ctx context.Context, shipment domain.Shipment) (domain.Booking, error) {
	if err := wait(ctx, c.delay); err != nil {
		return domain.Booking{}, err
	}
	carrier := c.rng.Pick(domain.Carriers)
	tracking := TrackingNumber(carrier, shipment.OrderID, c.rng.IntRange(1000, 9999))
	delivery := c.now().AddDate(0, 0, c.rng.IntRange(minDeliveryDays, maxDeliveryDays))

	if c.rng.Float64() < c.successRate {
		return domain.Booking{
			Scheduled:         true,
			Carrier:           carrier,
			TrackingNumber:    tracking,
			EstimatedDelivery: delivery,
		}, nil
	}
	return domain.Booking{FailureReason: c.rng.Pick(domain.ShippingFailureReasons)}, nil
}

// TrackingNumber joins the upper-cased carrier prefix, the last six
// characters of the order id and a numeric suffix.
func TrackingNumber(carrier, orderID string, suffix int) string {
	prefix := carrier
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	tail := orderID
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return fmt.Sprintf("%s%s%d", strings.ToUpper(prefix), tail, suffix)
}
