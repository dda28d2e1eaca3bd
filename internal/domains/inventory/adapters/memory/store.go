package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps inventory in process. The map is guarded for membership only;
// stock counters are mutated with compare-and-swap so reservations for
// different items never contend.
type Store struct {
	mu    sync.RWMutex
	items map[string]*entry
}

type entry struct {
	stock atomic.Int64
	meta  domain.Item
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{items: map[string]*entry{}}
}

// NewSeededStore constructs a store holding copies of items.
func NewSeededStore(items []domain.Item) *Store {
	s := NewStore()
	for _, item := range items {
		_ = s.Put(context.Background(), item)
	}
	return s
}

func (s *Store) lookup(name string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[name]
	return e, ok
}

// Get copies meta under the read lock; Put rewrites it under the write lock.
func (s *Store) Get(_ context.Context, name string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[name]
	if !ok {
		return nil, ports.ErrNotFound
	}
	item := e.meta
	item.Stock = e.stock.Load()
	return &item, nil
}

func (s *Store) TryReserve(_ context.Context, name string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidRequest
	}
	e, ok := s.lookup(name)
	if !ok {
		return ports.ErrNotFound
	}
	for {
		current := e.stock.Load()
		if current < quantity {
			return ports.ErrInsufficientStock
		}
		if e.stock.CompareAndSwap(current, current-quantity) {
			return nil
		}
	}
}

func (s *Store) Release(_ context.Context, name string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidRequest
	}
	e, ok := s.lookup(name)
	if !ok {
		return ports.ErrNotFound
	}
	e.stock.Add(quantity)
	return nil
}

func (s *Store) Put(_ context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[item.Name]
	if !ok {
		e = &entry{}
		s.items[item.Name] = e
	}
	e.meta = item
	e.stock.Store(item.Stock)
	return nil
}

func (s *Store) List(_ context.Context) ([]*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Item, 0, len(s.items))
	for _, e := range s.items {
		item := e.meta
		item.Stock = e.stock.Load()
		list = append(list, &item)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
