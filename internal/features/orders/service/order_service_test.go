package service

import (
	"context"
	"errors"
	"testing"

	"orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/orders/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a mock implementation of OrderProvider for testing.
type mockProvider struct {
	orders      map[string]*domain.Order
	recent      []*domain.Order
	returnError error
	recentCalls int
}

// GetOrder implements OrderProvider.
func (m *mockProvider) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.orders[orderID], nil
}

// ListRecent implements OrderProvider.
func (m *mockProvider) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	m.recentCalls++
	if m.returnError != nil {
		return nil, m.returnError
	}
	if limit < len(m.recent) {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

// mockSnapshots is a mock implementation of SnapshotRepository for testing.
type mockSnapshots struct {
	saved     []*domain.Order
	loaded    []*domain.Order
	saveError error
	loadError error
}

func (m *mockSnapshots) Save(ctx context.Context, orders []*domain.Order) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.saved = orders
	return nil
}

func (m *mockSnapshots) Load(ctx context.Context) ([]*domain.Order, error) {
	return m.loaded, m.loadError
}

func (m *mockSnapshots) Clear(ctx context.Context) error {
	m.saved = nil
	return nil
}

// TestOrderService_GetOrder_FromStore verifies the loaded collection is
// preferred over a platform fetch.
func TestOrderService_GetOrder_FromStore(t *testing.T) {
	st := store.New()
	local := &domain.Order{ID: "ord-1", Number: "10042"}
	st.SetOrders([]*domain.Order{local})

	provider := &mockProvider{orders: map[string]*domain.Order{
		"ord-1": {ID: "ord-1", Number: "stale"},
	}}
	svc := NewOrderService(provider, nil, st, 100)

	order, err := svc.GetOrder(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Same(t, local, order)
}

// TestOrderService_GetOrder_PlatformFallback verifies orders outside the
// collection are fetched remotely.
func TestOrderService_GetOrder_PlatformFallback(t *testing.T) {
	remote := &domain.Order{ID: "ord-9", Number: "10099"}
	provider := &mockProvider{orders: map[string]*domain.Order{"ord-9": remote}}
	svc := NewOrderService(provider, nil, store.New(), 100)

	order, err := svc.GetOrder(context.Background(), "ord-9")

	require.NoError(t, err)
	assert.Equal(t, remote, order)
}

// TestOrderService_GetOrder_NotFound verifies the sentinel error for
// unknown orders.
func TestOrderService_GetOrder_NotFound(t *testing.T) {
	svc := NewOrderService(&mockProvider{}, nil, store.New(), 100)

	order, err := svc.GetOrder(context.Background(), "nope")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// TestOrderService_Refresh verifies a refresh replaces the collection and
// persists the snapshot.
func TestOrderService_Refresh(t *testing.T) {
	recent := []*domain.Order{{ID: "ord-1"}, {ID: "ord-2"}}
	provider := &mockProvider{recent: recent}
	snapshots := &mockSnapshots{}
	st := store.New()
	svc := NewOrderService(provider, snapshots, st, 100)

	count, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, st.Len())
	assert.Equal(t, recent, snapshots.saved)
}

// TestOrderService_Refresh_SnapshotFailureTolerated verifies a failing
// snapshot store does not fail the refresh.
func TestOrderService_Refresh_SnapshotFailureTolerated(t *testing.T) {
	provider := &mockProvider{recent: []*domain.Order{{ID: "ord-1"}}}
	snapshots := &mockSnapshots{saveError: errors.New("redis down")}
	st := store.New()
	svc := NewOrderService(provider, snapshots, st, 100)

	count, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, st.Len())
}

// TestOrderService_Refresh_ProviderError verifies platform failures leave
// the collection untouched.
func TestOrderService_Refresh_ProviderError(t *testing.T) {
	st := store.New()
	st.SetOrders([]*domain.Order{{ID: "kept"}})
	provider := &mockProvider{returnError: errors.New("platform down")}
	svc := NewOrderService(provider, nil, st, 100)

	_, err := svc.Refresh(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, st.Len())
	assert.NotNil(t, st.Get("kept"))
}

// TestOrderService_Warm verifies the snapshot loads into the store.
func TestOrderService_Warm(t *testing.T) {
	snapshots := &mockSnapshots{loaded: []*domain.Order{{ID: "ord-1"}, {ID: "ord-2"}}}
	st := store.New()
	svc := NewOrderService(&mockProvider{}, snapshots, st, 100)

	require.NoError(t, svc.Warm(context.Background()))
	assert.Equal(t, 2, st.Len())
}

// TestOrderService_Warm_NoSnapshot verifies a missing snapshot is not an error.
func TestOrderService_Warm_NoSnapshot(t *testing.T) {
	st := store.New()
	svc := NewOrderService(&mockProvider{}, &mockSnapshots{}, st, 100)

	require.NoError(t, svc.Warm(context.Background()))
	assert.Equal(t, 0, st.Len())
}

// TestOrderService_UpdateStatus verifies validation and store patching.
func TestOrderService_UpdateStatus(t *testing.T) {
	st := store.New()
	st.SetOrders([]*domain.Order{{ID: "ord-1", Status: domain.OrderStatusNotFulfilled}})
	svc := NewOrderService(&mockProvider{}, nil, st, 100)

	require.NoError(t, svc.UpdateStatus("ord-1", domain.OrderStatusFulfilled))
	assert.Equal(t, domain.OrderStatusFulfilled, st.Get("ord-1").Status)

	assert.ErrorIs(t, svc.UpdateStatus("ord-1", "SHIPPED_MAYBE"), ErrInvalidStatus)
	assert.ErrorIs(t, svc.UpdateStatus("missing", domain.OrderStatusFulfilled), ErrOrderNotFound)
}
