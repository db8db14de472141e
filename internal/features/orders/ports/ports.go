package ports

import (
	"context"

	"orders-dashboard/internal/features/orders/domain"
)

// OrderProvider defines the interface for retrieving individual orders and
// recent-order listings from the e-commerce platform.
// This is a Secondary Port (Driven Port).
type OrderProvider interface {
	// GetOrder retrieves an order by its unique platform identifier.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)

	// ListRecent retrieves up to limit orders sorted by creation date
	// descending, excluding not-yet-placed checkouts.
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
}

// SnapshotRepository persists the loaded order collection so a restarted
// dashboard can warm its in-memory view without a platform round trip.
type SnapshotRepository interface {
	// Save stores the collection wholesale, replacing any prior snapshot.
	Save(ctx context.Context, orders []*domain.Order) error

	// Load returns the last saved collection, or nil when no snapshot exists.
	Load(ctx context.Context) ([]*domain.Order, error)

	// Clear removes the snapshot.
	Clear(ctx context.Context) error
}
