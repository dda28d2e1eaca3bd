package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/application/types"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

// Service orchestrates order intake, change handling and status lookups.
type Service struct {
	repo        ports.Repository
	feed        ports.ChangeFeed
	coordinator *Coordinator
	idempotency ports.IdempotencyStore
	logger      *slog.Logger
	newID       func() string
	now         func() time.Time
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUID order id generator.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithIdempotencyStore enables Idempotency-Key replay for PlaceOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) ServiceOption {
	return func(s *Service) {
		s.idempotency = store
	}
}

func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, feed ports.ChangeFeed, coordinator *Coordinator, opts ...ServiceOption) *Service {
	s := &Service{
		repo:        repo,
		feed:        feed,
		coordinator: coordinator,
		logger:      slog.New(slog.DiscardHandler),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder stores a Pending order and announces it on the change feed.
// When the feed delivers synchronously the returned order already carries
// the reservation status.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	order, err := domain.NewOrder(s.newID(), input.CustomerName, input.Items, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" && s.idempotency != nil {
		replay, err := s.claimIdempotencyKey(ctx, key, order.ID, input)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "replaying order for idempotency key",
				slog.String("order.id", replay.ID))
			return replay, nil
		}
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	event, err := domain.NewInsertEvent(created)
	if err != nil {
		return nil, err
	}
	if err := s.feed.Publish(ctx, event); err != nil {
		return nil, fmt.Errorf("publish change event for order %s: %w", created.ID, err)
	}
	latest, err := s.repo.GetByID(ctx, created.ID)
	if err != nil {
		return created, nil
	}
	return latest, nil
}

// claimIdempotencyKey binds key to orderID. A key already bound to the same
// payload yields the stored order for replay.
func (s *Service) claimIdempotencyKey(ctx context.Context, key, orderID string, input types.PlaceOrderInput) (*domain.Order, error) {
	hash, err := FingerprintPlaceOrder(input)
	if err != nil {
		return nil, err
	}
	stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: hash, OrderID: orderID})
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, ports.ErrIdempotencyConflict) || stored == nil || stored.RequestHash != hash {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, stored.OrderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s for this key is still being created", ports.ErrIdempotencyConflict, stored.OrderID)
	}
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) HandleChange(ctx context.Context, event domain.ChangeEvent) (*domain.ReservationOutcome, error) {
	if !event.IsInsert() {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "ignoring change event",
			slog.String("event", event.EventName),
			slog.String("order.id", event.OrderID))
		return nil, nil
	}
	items, err := event.DecodeItems()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	order := &domain.Order{
		ID:           event.OrderID,
		CustomerName: event.Customer(),
		Items:        items,
		Status:       domain.StatusPending,
	}
	if existing, err := s.repo.GetByID(ctx, event.OrderID); err == nil {
		if existing.Status != domain.StatusPending {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "order already reserved, skipping redelivered change event",
				slog.String("order.id", existing.ID),
				slog.String("order.status", string(existing.Status)))
			return nil, nil
		}
		order.OrderDate = existing.OrderDate
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	} else {
		order.OrderDate = s.now().UTC()
	}
	return s.coordinator.Reserve(ctx, order)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
