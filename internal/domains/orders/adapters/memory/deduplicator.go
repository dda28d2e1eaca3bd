package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

var _ ports.EventDeduplicator = (*Deduplicator)(nil)

// Deduplicator remembers keys for a fixed TTL within one process.
type Deduplicator struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
}

// NewDeduplicator returns a deduplicator; ttl <= 0 keeps keys forever.
func NewDeduplicator(ttl time.Duration) *Deduplicator {
	return &Deduplicator{ttl: ttl, now: time.Now, seen: map[string]time.Time{}}
}

func (d *Deduplicator) Seen(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if expires, ok := d.seen[key]; ok && (d.ttl <= 0 || now.Before(expires)) {
		return true, nil
	}
	d.seen[key] = now.Add(d.ttl)
	return false, nil
}

func (d *Deduplicator) Forget(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
	return nil
}
