package store

import (
	"strings"
	"sync"

	"orders-dashboard/internal/features/orders/domain"
)

// Store holds the authoritative in-memory order collection and the view
// state the dashboard renders from: an optional active search result, an
// optional legacy substring filter, and the currently selected order.
//
// All reads and writes go through the store; internal state is guarded by
// one mutex so a status patch is atomic across the collection, the active
// search result and the selection.
type Store struct {
	mu sync.RWMutex

	orders []*domain.Order

	// Active advanced search, if any. searchOrders is the last result's
	// merged order list; activeQuery is the query that produced it.
	activeQuery  string
	searchOrders []*domain.Order

	// Legacy simple substring filter applied when no advanced search is
	// active.
	simpleFilter string

	selected *domain.Order
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// SetOrders replaces the collection wholesale, as on load or refresh.
// Any active search and selection are reset; search results computed over
// the previous collection no longer describe it.
func (s *Store) SetOrders(orders []*domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = orders
	s.activeQuery = ""
	s.searchOrders = nil
	s.selected = nil
}

// Orders returns a snapshot copy of the collection. Searches operate on the
// snapshot taken at call time, so later collection mutations do not change
// an in-flight search's local contribution.
func (s *Store) Orders() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*domain.Order, len(s.orders))
	copy(snapshot, s.orders)
	return snapshot
}

// Get returns the order with the given ID from the collection, or nil.
func (s *Store) Get(id string) *domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o != nil && o.ID == id {
			return o
		}
	}
	return nil
}

// SetSearchResult records the outcome of an advanced search. A blank query
// deactivates the search view.
func (s *Store) SetSearchResult(query string, orders []*domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		s.activeQuery = ""
		s.searchOrders = nil
		return
	}
	s.activeQuery = query
	s.searchOrders = orders
}

// ClearSearch deactivates the search view; Visible reverts to the plain
// collection.
func (s *Store) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeQuery = ""
	s.searchOrders = nil
}

// SetSimpleFilter sets the legacy substring filter used when no advanced
// search is active.
func (s *Store) SetSimpleFilter(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simpleFilter = strings.ToLower(strings.TrimSpace(query))
}

// Visible returns the order list the dashboard should render: the active
// search result when a non-blank query has one, otherwise the collection,
// narrowed by the legacy substring filter when set.
func (s *Store) Visible() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeQuery != "" && s.searchOrders != nil {
		visible := make([]*domain.Order, len(s.searchOrders))
		copy(visible, s.searchOrders)
		return visible
	}

	visible := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o == nil {
			continue
		}
		if s.simpleFilter != "" && !o.MatchesQuery(s.simpleFilter) {
			continue
		}
		visible = append(visible, o)
	}
	return visible
}

// Select marks the order with the given ID as the current selection.
// Selecting an unknown ID clears the selection.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nil
	for _, o := range s.orders {
		if o != nil && o.ID == id {
			s.selected = o
			return
		}
	}
	for _, o := range s.searchOrders {
		if o != nil && o.ID == id {
			s.selected = o
			return
		}
	}
}

// Selected returns the currently selected order, or nil.
func (s *Store) Selected() *domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// UpdateStatus applies an externally-decided status change in the three
// places that must stay consistent: the main collection, the active search
// result and the selection. No re-search is triggered. It reports whether
// any copy was patched.
func (s *Store) UpdateStatus(id string, status domain.OrderStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	patched := false
	for _, o := range s.orders {
		if o != nil && o.ID == id {
			o.Status = status
			patched = true
		}
	}
	for _, o := range s.searchOrders {
		if o != nil && o.ID == id {
			o.Status = status
			patched = true
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected.Status = status
		patched = true
	}
	return patched
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
