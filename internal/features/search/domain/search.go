package domain

import (
	"encoding/base64"
	"encoding/json"
	"sort"
	"strings"
	"time"

	orders "orders-dashboard/internal/features/orders/domain"
)

// SearchFilters is the immutable value object describing one search
// invocation: a free-text query plus optional status and date constraints.
type SearchFilters struct {
	// Query is the free-text search term.
	Query string `json:"query"`
	// Statuses restricts matches to the given fulfillment statuses.
	// Empty means no status restriction.
	Statuses []orders.OrderStatus `json:"statuses,omitempty"`
	// DateFrom restricts matches to orders created on or after this time.
	DateFrom *time.Time `json:"date_from,omitempty"`
	// DateTo restricts matches to orders created up to this time.
	DateTo *time.Time `json:"date_to,omitempty"`
	// Limit caps the number of remote results requested. Zero means the
	// orchestrator default.
	Limit int `json:"limit,omitempty"`
}

// AllowsStatus reports whether the status passes the filter. An empty
// status set allows everything.
func (f SearchFilters) AllowsStatus(s orders.OrderStatus) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, allowed := range f.Statuses {
		if allowed == s {
			return true
		}
	}
	return false
}

// InDateRange reports whether t passes the date bounds. Both bounds are
// inclusive on the local scan path.
func (f SearchFilters) InDateRange(t time.Time) bool {
	if f.DateFrom != nil && t.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.After(*f.DateTo) {
		return false
	}
	return true
}

// CacheKey derives a deterministic, storage-safe key for the filters.
// The query is lower-cased and trimmed and the statuses sorted so that
// logically identical searches share an entry.
func (f SearchFilters) CacheKey() string {
	statuses := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)

	key := struct {
		Query    string   `json:"q"`
		Statuses []string `json:"s,omitempty"`
		From     string   `json:"f,omitempty"`
		To       string   `json:"t,omitempty"`
	}{
		Query:    strings.ToLower(strings.TrimSpace(f.Query)),
		Statuses: statuses,
	}
	if f.DateFrom != nil {
		key.From = f.DateFrom.UTC().Format(time.RFC3339)
	}
	if f.DateTo != nil {
		key.To = f.DateTo.UTC().Format(time.RFC3339)
	}

	data, _ := json.Marshal(key)
	return base64.StdEncoding.EncodeToString(data)
}

// SearchResult is the outcome of one orchestrated search. It is created
// fresh per search call and never mutated after construction, except that
// the owning store may patch an order's status in place.
type SearchResult struct {
	// Orders is the merged, deduplicated result, sorted by creation date
	// descending.
	Orders []*orders.Order `json:"orders"`
	// FromCache is the local-scan contribution (orders already loaded).
	FromCache []*orders.Order `json:"from_cache"`
	// FromAPI is the remote-query contribution.
	FromAPI []*orders.Order `json:"from_api"`
	// HasMore indicates the remote query had further pages.
	HasMore bool `json:"has_more"`
	// NextCursor is the opaque continuation token for the remote query.
	NextCursor string `json:"next_cursor,omitempty"`
	// TotalFound is the size of the merged result.
	TotalFound int `json:"total_found"`
	// SearchedAt is when the search completed. Drives cache freshness and
	// eviction recency.
	SearchedAt time.Time `json:"searched_at"`
	// TookMS is the elapsed search wall-clock time in milliseconds.
	TookMS float64 `json:"search_time_ms"`
}
