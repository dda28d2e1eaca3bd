package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid inventory input")

// Service exposes read access to stock levels and boot-time seeding.
// Stock mutations go through the reservation coordinator only.
type Service struct {
	store ports.Store
}

func NewService(store ports.Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.store.List(ctx)
}

func (s *Service) GetItem(ctx context.Context, name string) (*domain.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrEmptyName)
	}
	return s.store.Get(ctx, name)
}

// Seed loads the default catalog. With onlyMissing set, existing rows keep
// their current stock.
func (s *Service) Seed(ctx context.Context, onlyMissing bool) error {
	return ports.Seed(ctx, s.store, domain.DefaultCatalog(), onlyMissing)
}
