package service

import (
	"context"
	"sync"
	"time"

	"orders-dashboard/internal/core/logger"
	ordersdomain "orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/search/domain"
	"orders-dashboard/internal/features/search/ports"

	"go.uber.org/zap"
)

const (
	// DefaultRemoteLimit bounds a single remote query page.
	DefaultRemoteLimit = 100
	// DefaultDebounceDelay is the quiet period before a debounced search fires.
	DefaultDebounceDelay = 300 * time.Millisecond
)

// Orchestrator composes the search pipeline: cache check, local scan,
// remote query, merge, cache write. Remote failures degrade to local-only
// results; Search never fails for operational errors.
//
// The result cache and the debounce timer are private to one Orchestrator
// instance.
type Orchestrator struct {
	source      ports.OrderSource
	builder     *QueryBuilder
	cache       *Cache
	remoteLimit int

	mu    sync.Mutex
	timer *time.Timer
}

// NewOrchestrator creates an Orchestrator. A non-positive remoteLimit falls
// back to DefaultRemoteLimit.
func NewOrchestrator(source ports.OrderSource, builder *QueryBuilder, cache *Cache, remoteLimit int) *Orchestrator {
	if remoteLimit <= 0 {
		remoteLimit = DefaultRemoteLimit
	}
	if cache == nil {
		cache = NewCache(0, 0)
	}
	return &Orchestrator{
		source:      source,
		builder:     builder,
		cache:       cache,
		remoteLimit: remoteLimit,
	}
}

// Search runs one full search over the loadedOrders snapshot passed in at
// call time. A fresh cache hit returns immediately with no local or remote
// work. The returned result's FromCache holds the local-scan contribution
// and FromAPI the remote one; a degraded search is distinguishable only
// through those fields.
func (o *Orchestrator) Search(ctx context.Context, query string, loaded []*ordersdomain.Order, filters domain.SearchFilters) *domain.SearchResult {
	start := time.Now()

	filters.Query = query
	key := filters.CacheKey()

	if cached, ok := o.cache.Get(key); ok {
		return cached
	}

	local := Scan(query, loaded, filters)
	remote := o.queryRemote(ctx, query, filters)
	merged := Merge(local, remote.Orders)

	result := &domain.SearchResult{
		Orders:     merged,
		FromCache:  local,
		FromAPI:    remote.Orders,
		HasMore:    remote.HasMore,
		NextCursor: remote.NextCursor,
		TotalFound: len(merged),
		SearchedAt: time.Now(),
		TookMS:     float64(time.Since(start).Microseconds()) / 1000.0,
	}

	o.cache.Put(key, result)
	return result
}

// queryRemote builds the filter document and executes the remote query.
// Any failure is logged and treated as an empty contribution.
func (o *Orchestrator) queryRemote(ctx context.Context, query string, filters domain.SearchFilters) *ports.OrderPage {
	if o.source == nil {
		return &ports.OrderPage{}
	}

	filter := o.builder.Build(ctx, query, filters)

	limit := filters.Limit
	if limit <= 0 || limit > o.remoteLimit {
		limit = o.remoteLimit
	}

	page, err := o.source.Query(ctx, filter, limit)
	if err != nil {
		logger.Get().Error("Remote order query failed, returning local results only",
			zap.String("query", query),
			zap.Error(err),
		)
		return &ports.OrderPage{}
	}
	if page == nil {
		return &ports.OrderPage{}
	}

	// Drop malformed records silently rather than aborting the batch.
	clean := page.Orders[:0:0]
	for _, order := range page.Orders {
		if order != nil {
			clean = append(clean, order)
		}
	}
	page.Orders = clean

	return page
}

// DebouncedSearch schedules a search after the quiet period, cancelling any
// pending one: classic last-call-wins debounce, not a queue. When the timer
// fires, Search runs and callback receives the result. A non-positive delay
// uses DefaultDebounceDelay.
func (o *Orchestrator) DebouncedSearch(ctx context.Context, query string, loaded []*ordersdomain.Order, filters domain.SearchFilters, delay time.Duration, callback func(*domain.SearchResult)) {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(delay, func() {
		callback(o.Search(ctx, query, loaded, filters))
	})
}

// CancelDebounced clears any pending debounce timer without invoking the
// callback. A search already past its timer runs to completion; its result
// may still populate the cache but is not delivered through this path.
func (o *Orchestrator) CancelDebounced() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}
