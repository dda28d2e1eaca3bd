package redis

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
)

var _ ports.Store = (*Store)(nil)

const defaultKeyPrefix = "inventory:item:"

const (
	resultMissing      = -2
	resultInsufficient = -1
)

// reserveScript decrements the stock field only when it covers the request.
// Redis runs scripts atomically, so the check and the write cannot interleave
// with another client.
var reserveScript = goredis.NewScript(`
local stock = redis.call('HGET', KEYS[1], 'stock')
if not stock then
  return -2
end
local qty = tonumber(ARGV[1])
if tonumber(stock) < qty then
  return -1
end
return redis.call('HINCRBY', KEYS[1], 'stock', -qty)
`)

var releaseScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -2
end
return redis.call('HINCRBY', KEYS[1], 'stock', tonumber(ARGV[1]))
`)

// Store keeps one hash per item: stock, price, description.
type Store struct {
	rdb    goredis.UniversalClient
	prefix string
}

// Option customises the store.
type Option func(*Store)

// WithKeyPrefix namespaces item keys, mostly for tests sharing a server.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if strings.TrimSpace(prefix) != "" {
			s.prefix = prefix
		}
	}
}

// NewStore wires a Redis-backed store.
func NewStore(rdb goredis.UniversalClient, opts ...Option) *Store {
	s := &Store{rdb: rdb, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) key(name string) string { return s.prefix + name }

func (s *Store) Get(ctx context.Context, name string) (*domain.Item, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	fields, err := s.rdb.HGetAll(ctx, s.key(name)).Result()
	if err != nil {
		return nil, ports.NewStoreError("get", name, err)
	}
	if len(fields) == 0 {
		return nil, ports.ErrNotFound
	}
	item, err := fromHash(name, fields)
	if err != nil {
		return nil, ports.NewStoreError("get", name, err)
	}
	return item, nil
}

func (s *Store) TryReserve(ctx context.Context, name string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidRequest
	}
	if err := s.ensureClient(); err != nil {
		return err
	}
	res, err := reserveScript.Run(ctx, s.rdb, []string{s.key(name)}, quantity).Int64()
	if err != nil {
		return ports.NewStoreError("reserve", name, err)
	}
	switch res {
	case resultMissing:
		return ports.ErrNotFound
	case resultInsufficient:
		return ports.ErrInsufficientStock
	default:
		return nil
	}
}

func (s *Store) Release(ctx context.Context, name string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidRequest
	}
	if err := s.ensureClient(); err != nil {
		return err
	}
	res, err := releaseScript.Run(ctx, s.rdb, []string{s.key(name)}, quantity).Int64()
	if err != nil {
		return ports.NewStoreError("release", name, err)
	}
	if res == resultMissing {
		return ports.ErrNotFound
	}
	return nil
}

func (s *Store) Put(ctx context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if err := s.ensureClient(); err != nil {
		return err
	}
	err := s.rdb.HSet(ctx, s.key(item.Name),
		"stock", item.Stock,
		"price", item.Price.StringFixed(2),
		"description", item.Description,
	).Err()
	return ports.NewStoreError("put", item.Name, err)
}

func (s *Store) List(ctx context.Context) ([]*domain.Item, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	var items []*domain.Item
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		name := strings.TrimPrefix(iter.Val(), s.prefix)
		item, err := s.Get(ctx, name)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := iter.Err(); err != nil {
		return nil, ports.NewStoreError("list", "*", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *Store) ensureClient() error {
	if s == nil || s.rdb == nil {
		return errors.New("redis inventory store not configured")
	}
	return nil
}

func fromHash(name string, fields map[string]string) (*domain.Item, error) {
	stock, err := strconv.ParseInt(fields["stock"], 10, 64)
	if err != nil {
		return nil, err
	}
	price := decimal.Zero
	if raw := fields["price"]; raw != "" {
		if price, err = decimal.NewFromString(raw); err != nil {
			return nil, err
		}
	}
	return &domain.Item{
		Name:        name,
		Stock:       stock,
		Price:       price,
		Description: fields["description"],
	}, nil
}
