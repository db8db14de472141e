package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"orders-dashboard/internal/core/cache"
	"orders-dashboard/internal/features/orders/domain"
)

const snapshotKey = "orders:collection"

// RedisSnapshotRepository persists the loaded order collection as a JSON
// blob through the core cache port. It implements ports.SnapshotRepository.
type RedisSnapshotRepository struct {
	cache cache.Cache
}

// NewRedisSnapshotRepository creates a new RedisSnapshotRepository.
func NewRedisSnapshotRepository(c cache.Cache) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{
		cache: c,
	}
}

// Save stores the collection wholesale, replacing any prior snapshot.
// Snapshots do not expire; a refresh overwrites them.
func (r *RedisSnapshotRepository) Save(ctx context.Context, orders []*domain.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to marshal order snapshot: %w", err)
	}

	if err := r.cache.Set(ctx, snapshotKey, data, 0); err != nil {
		return fmt.Errorf("failed to save order snapshot: %w", err)
	}

	return nil
}

// Load returns the last saved collection, or nil when no snapshot exists.
func (r *RedisSnapshotRepository) Load(ctx context.Context) ([]*domain.Order, error) {
	data, err := r.cache.Get(ctx, snapshotKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load order snapshot: %w", err)
	}

	var orders []*domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order snapshot: %w", err)
	}

	return orders, nil
}

// Clear removes the snapshot.
func (r *RedisSnapshotRepository) Clear(ctx context.Context) error {
	if err := r.cache.Delete(ctx, snapshotKey); err != nil {
		return fmt.Errorf("failed to clear order snapshot: %w", err)
	}
	return nil
}
