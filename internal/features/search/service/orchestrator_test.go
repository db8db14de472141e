package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersdomain "orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/search/domain"
	"orders-dashboard/internal/features/search/ports"
)

// mockOrderSource is a plain mock of ports.OrderSource.
type mockOrderSource struct {
	mu         sync.Mutex
	page       *ports.OrderPage
	err        error
	calls      int
	lastFilter *domain.FilterDocument
	lastLimit  int
}

// Query implements OrderSource.
func (m *mockOrderSource) Query(ctx context.Context, filter *domain.FilterDocument, limit int) (*ports.OrderPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastFilter = filter
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *mockOrderSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestOrchestrator(source ports.OrderSource) *Orchestrator {
	return NewOrchestrator(source, NewQueryBuilder(nil), NewCache(time.Minute, 10), 0)
}

// TestOrchestrator_GracefulDegradation verifies a failing remote source
// still yields a result whose FromAPI is empty and FromCache equals the
// local scan.
func TestOrchestrator_GracefulDegradation(t *testing.T) {
	source := &mockOrderSource{err: errors.New("api down")}
	o := newTestOrchestrator(source)

	loaded := []*ordersdomain.Order{
		testOrder("1", "1001", time.Now(), ordersdomain.OrderStatusFulfilled, "a@x.com"),
	}

	result := o.Search(context.Background(), "1001", loaded, domain.SearchFilters{})

	require.NotNil(t, result)
	assert.Empty(t, result.FromAPI)
	assert.False(t, result.HasMore)
	require.Len(t, result.FromCache, 1)
	assert.Equal(t, "1", result.FromCache[0].ID)
	assert.Equal(t, 1, result.TotalFound)
}

// TestOrchestrator_CacheHitSkipsWork verifies a fresh cache hit performs no
// remote query and returns the identical result.
func TestOrchestrator_CacheHitSkipsWork(t *testing.T) {
	source := &mockOrderSource{page: &ports.OrderPage{}}
	o := newTestOrchestrator(source)
	loaded := []*ordersdomain.Order{
		testOrder("1", "1001", time.Now(), ordersdomain.OrderStatusFulfilled, "a@x.com"),
	}

	first := o.Search(context.Background(), "1001", loaded, domain.SearchFilters{})
	second := o.Search(context.Background(), "1001", loaded, domain.SearchFilters{})

	assert.Same(t, first, second)
	assert.Equal(t, 1, source.callCount())
}

// TestOrchestrator_RemoteLimit verifies the page bound is enforced.
func TestOrchestrator_RemoteLimit(t *testing.T) {
	source := &mockOrderSource{page: &ports.OrderPage{}}
	o := newTestOrchestrator(source)

	o.Search(context.Background(), "x1", nil, domain.SearchFilters{})
	assert.Equal(t, DefaultRemoteLimit, source.lastLimit)

	o.Search(context.Background(), "x2", nil, domain.SearchFilters{Limit: 25})
	assert.Equal(t, 25, source.lastLimit)

	o.Search(context.Background(), "x3", nil, domain.SearchFilters{Limit: 500})
	assert.Equal(t, DefaultRemoteLimit, source.lastLimit)
}

// TestOrchestrator_EndToEnd replays the canonical scenario: the query
// "1002" matches order 2 locally by number and remotely by the number
// filter; the merged result holds it once.
func TestOrchestrator_EndToEnd(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	loaded := []*ordersdomain.Order{
		testOrder("1", "1001", jan, ordersdomain.OrderStatusFulfilled, "a@x.com"),
		testOrder("2", "1002", feb, ordersdomain.OrderStatusNotFulfilled, "b@x.com"),
	}
	remoteCopy := testOrder("2", "1002", feb, ordersdomain.OrderStatusNotFulfilled, "b@x.com")

	source := &mockOrderSource{page: &ports.OrderPage{Orders: []*ordersdomain.Order{remoteCopy}}}
	o := newTestOrchestrator(source)

	result := o.Search(context.Background(), "1002", loaded, domain.SearchFilters{})

	require.Len(t, result.Orders, 1)
	assert.Equal(t, "2", result.Orders[0].ID)
	assert.Equal(t, 1, result.TotalFound)

	// Local scan matched by number; remote matched through the filter.
	require.Len(t, result.FromCache, 1)
	assert.Equal(t, "2", result.FromCache[0].ID)
	require.Len(t, result.FromAPI, 1)
	assert.Equal(t, "2", result.FromAPI[0].ID)

	// The loaded copy wins the merge.
	assert.Same(t, loaded[1], result.Orders[0])

	// The remote query carried the order-number classification.
	preds := source.lastFilter.Predicates("number")
	require.Len(t, preds, 1)
	assert.Equal(t, 1002, preds[0].Value)
}

// TestOrchestrator_DropsNilRemoteRecords verifies malformed remote entries
// are filtered before merging.
func TestOrchestrator_DropsNilRemoteRecords(t *testing.T) {
	ts := time.Now()
	source := &mockOrderSource{page: &ports.OrderPage{
		Orders: []*ordersdomain.Order{nil, testOrder("9", "9009", ts, ordersdomain.OrderStatusFulfilled, "z@x.com"), nil},
	}}
	o := newTestOrchestrator(source)

	result := o.Search(context.Background(), "9009", nil, domain.SearchFilters{})

	require.Len(t, result.FromAPI, 1)
	assert.Equal(t, "9", result.FromAPI[0].ID)
	require.Len(t, result.Orders, 1)
}

// TestOrchestrator_DebounceCollapsing verifies three rapid calls collapse
// into one search using the last query.
func TestOrchestrator_DebounceCollapsing(t *testing.T) {
	source := &mockOrderSource{page: &ports.OrderPage{}}
	o := newTestOrchestrator(source)

	results := make(chan *domain.SearchResult, 3)
	callback := func(r *domain.SearchResult) { results <- r }

	loaded := []*ordersdomain.Order{
		testOrder("1", "abc-1", time.Now(), ordersdomain.OrderStatusFulfilled, "abc@x.com"),
	}

	delay := 50 * time.Millisecond
	o.DebouncedSearch(context.Background(), "a", loaded, domain.SearchFilters{}, delay, callback)
	o.DebouncedSearch(context.Background(), "ab", loaded, domain.SearchFilters{}, delay, callback)
	o.DebouncedSearch(context.Background(), "abc", loaded, domain.SearchFilters{}, delay, callback)

	select {
	case result := <-results:
		require.Len(t, result.FromCache, 1)
		assert.Equal(t, "1", result.FromCache[0].ID)
	case <-time.After(time.Second):
		t.Fatal("debounced search never fired")
	}

	// Only the last scheduled search ran.
	assert.Equal(t, 1, source.callCount())
	select {
	case <-results:
		t.Fatal("earlier debounced calls should have been cancelled")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestOrchestrator_CancelDebounced verifies cancellation clears the pending
// timer without invoking the callback.
func TestOrchestrator_CancelDebounced(t *testing.T) {
	source := &mockOrderSource{page: &ports.OrderPage{}}
	o := newTestOrchestrator(source)

	fired := make(chan struct{}, 1)
	o.DebouncedSearch(context.Background(), "abc", nil, domain.SearchFilters{}, 50*time.Millisecond, func(*domain.SearchResult) {
		fired <- struct{}{}
	})
	o.CancelDebounced()

	select {
	case <-fired:
		t.Fatal("cancelled search still fired")
	case <-time.After(150 * time.Millisecond):
	}
	assert.Zero(t, source.callCount())
}
