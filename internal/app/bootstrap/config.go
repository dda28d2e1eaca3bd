// Package bootstrap holds the configuration and adapter selection shared by
// the API and worker processes.
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/go-order-fulfillment/internal/platform/config"
	"github.com/Apurer/go-order-fulfillment/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-order-fulfillment/internal/platform/temporal"
)

const (
	InventoryMemory   = "memory"
	InventoryPostgres = "postgres"
	InventoryRedis    = "redis"
)

// Config carries environment-driven settings for both processes.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	RedisAddr   string `env:"REDIS_ADDR"`

	KafkaBrokers      []string `env:"KAFKA_BROKERS" envSeparator:","`
	OrderChangesTopic string   `env:"ORDER_CHANGES_TOPIC" envDefault:"order-changes"`
	FulfillmentTopic  string   `env:"FULFILLMENT_TOPIC" envDefault:"order-fulfillment"`
	KafkaGroupID      string   `env:"KAFKA_GROUP_ID" envDefault:"order-fulfillment"`

	InventoryBackend        string `env:"INVENTORY_BACKEND" envDefault:"memory"`
	InventorySeed           bool   `env:"INVENTORY_SEED" envDefault:"true"`
	InventoryReserveRetries uint64 `env:"INVENTORY_RESERVE_RETRIES" envDefault:"0"`

	PaymentDelay  time.Duration `env:"PAYMENT_DELAY" envDefault:"500ms"`
	ShippingDelay time.Duration `env:"SHIPPING_DELAY" envDefault:"300ms"`
	DedupTTL      time.Duration `env:"DEDUP_TTL" envDefault:"24h"`

	Temporal      platformtemporal.Settings
	Observability observability.Settings
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig(serviceName string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Observability.ServiceName = serviceName
	cfg.InventoryBackend = strings.ToLower(strings.TrimSpace(cfg.InventoryBackend))
	switch cfg.InventoryBackend {
	case InventoryMemory, InventoryPostgres, InventoryRedis:
	default:
		return Config{}, fmt.Errorf("INVENTORY_BACKEND must be one of memory, postgres, redis; got %q", cfg.InventoryBackend)
	}
	if cfg.PaymentDelay < 0 || cfg.ShippingDelay < 0 {
		return Config{}, fmt.Errorf("PAYMENT_DELAY and SHIPPING_DELAY must not be negative")
	}
	brokers := cfg.KafkaBrokers[:0]
	for _, b := range cfg.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	cfg.KafkaBrokers = brokers
	return cfg, nil
}

// KafkaEnabled reports whether the change feed and fulfillment queue run over Kafka.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
