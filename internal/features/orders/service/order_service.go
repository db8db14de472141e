package service

import (
	"context"
	"errors"

	"orders-dashboard/internal/core/logger"
	"orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/orders/ports"
	"orders-dashboard/internal/features/orders/store"

	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when the order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidStatus is returned when a status change names an unknown status.
var ErrInvalidStatus = errors.New("invalid order status")

// OrderService handles the business logic for the order collection: loading
// it from the platform, warming it from a snapshot, and applying status
// changes decided elsewhere.
type OrderService struct {
	// provider is the interface for fetching order data from the platform.
	provider ports.OrderProvider
	// snapshots persists the collection across restarts. May be nil when
	// snapshotting is disabled.
	snapshots ports.SnapshotRepository
	store     *store.Store
	// refreshLimit is how many recent orders a refresh loads.
	refreshLimit int
	log          *zap.Logger
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(provider ports.OrderProvider, snapshots ports.SnapshotRepository, s *store.Store, refreshLimit int) *OrderService {
	return &OrderService{
		provider:     provider,
		snapshots:    snapshots,
		store:        s,
		refreshLimit: refreshLimit,
		log:          logger.Named("orders"),
	}
}

// GetOrder retrieves an order by ID, preferring the loaded collection and
// falling back to a platform fetch for orders outside it.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if order := s.store.Get(orderID); order != nil {
		return order, nil
	}

	order, err := s.provider.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Refresh reloads the collection from the platform and persists the new
// snapshot. Snapshot failures are logged, not returned; the in-memory
// collection is already current.
func (s *OrderService) Refresh(ctx context.Context) (int, error) {
	orders, err := s.provider.ListRecent(ctx, s.refreshLimit)
	if err != nil {
		return 0, err
	}

	s.store.SetOrders(orders)
	s.log.Info("Order collection refreshed", zap.Int("count", len(orders)))

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, orders); err != nil {
			s.log.Warn("Failed to persist order snapshot", zap.Error(err))
		}
	}

	return len(orders), nil
}

// Warm loads the last persisted snapshot into the store. A missing snapshot
// leaves the store empty; the first Refresh fills it.
func (s *OrderService) Warm(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	orders, err := s.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	if orders == nil {
		return nil
	}

	s.store.SetOrders(orders)
	s.log.Info("Order collection warmed from snapshot", zap.Int("count", len(orders)))
	return nil
}

// UpdateStatus applies an externally-decided status change across every
// in-memory copy of the order.
func (s *OrderService) UpdateStatus(id string, status domain.OrderStatus) error {
	if !domain.ValidStatus(status) {
		return ErrInvalidStatus
	}
	if !s.store.UpdateStatus(id, status) {
		return ErrOrderNotFound
	}
	return nil
}
