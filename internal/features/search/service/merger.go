package service

import (
	"sort"

	ordersdomain "orders-dashboard/internal/features/orders/domain"
)

// Merge combines the local-scan and remote-query result sets into one
// deduplicated sequence sorted by creation date descending.
//
// The order ID is the dedup key. Local entries are inserted first and win
// on collision: the loaded copy is authoritative over a possibly-stale
// remote duplicate. Equal timestamps keep insertion order (local first).
// Nil records are dropped.
func Merge(local, remote []*ordersdomain.Order) []*ordersdomain.Order {
	seen := make(map[string]struct{}, len(local)+len(remote))
	merged := make([]*ordersdomain.Order, 0, len(local)+len(remote))

	for _, set := range [][]*ordersdomain.Order{local, remote} {
		for _, order := range set {
			if order == nil {
				continue
			}
			if _, ok := seen[order.ID]; ok {
				continue
			}
			seen[order.ID] = struct{}{}
			merged = append(merged, order)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged
}
