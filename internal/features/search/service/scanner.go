package service

import (
	"strings"

	ordersdomain "orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/search/domain"
)

// Scan performs the local search pass over already-loaded orders.
//
// A blank query returns the input unchanged: status and date filters are
// deliberately inert on that path, and callers depend on it (the plain
// collection view is rendered when no text query is active). For non-blank
// queries, orders are narrowed by status and date range first and then
// tested with the case-insensitive substring predicate.
//
// Pure function of its inputs; no I/O.
func Scan(query string, loaded []*ordersdomain.Order, filters domain.SearchFilters) []*ordersdomain.Order {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return loaded
	}

	normalized := strings.ToLower(trimmed)

	matched := make([]*ordersdomain.Order, 0, len(loaded))
	for _, order := range loaded {
		if order == nil {
			continue
		}
		if !filters.AllowsStatus(order.Status) {
			continue
		}
		if !filters.InDateRange(order.CreatedAt) {
			continue
		}
		if order.MatchesQuery(normalized) {
			matched = append(matched, order)
		}
	}

	return matched
}
