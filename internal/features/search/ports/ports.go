package ports

import (
	"context"

	ordersdomain "orders-dashboard/internal/features/orders/domain"
	"orders-dashboard/internal/features/search/domain"
)

// OrderPage is one page of a remote order query.
type OrderPage struct {
	// Orders are the matching orders, sorted by creation date descending.
	Orders []*ordersdomain.Order
	// HasMore indicates further pages exist.
	HasMore bool
	// NextCursor is the opaque continuation token for the next page.
	NextCursor string
	// Total is the total match count reported by the platform, when known.
	Total int
}

// OrderSource executes structured filter queries against the platform's
// order search API.
// This is a Secondary Port (Driven Port).
type OrderSource interface {
	// Query returns up to limit orders matching the filter document,
	// sorted by creation date descending.
	Query(ctx context.Context, filter *domain.FilterDocument, limit int) (*OrderPage, error)
}

// ContactDirectory resolves free-text name fragments to platform contact
// identifiers. Implementations are best-effort: a lookup that cannot be
// served returns an error, and callers degrade to local name matching.
type ContactDirectory interface {
	// Resolve returns the contact identifiers whose name matches the fragment.
	Resolve(ctx context.Context, nameFragment string) ([]string, error)
}
