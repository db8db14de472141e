package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersdomain "orders-dashboard/internal/features/orders/domain"
)

func mergeOrder(id string, created time.Time, status ordersdomain.OrderStatus) *ordersdomain.Order {
	return &ordersdomain.Order{ID: id, Status: status, CreatedAt: created}
}

// TestMerge_DedupLocalWins verifies every ID appears once and the local
// version is retained on collision.
func TestMerge_DedupLocalWins(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	localCopy := mergeOrder("1", ts, ordersdomain.OrderStatusFulfilled)
	remoteCopy := mergeOrder("1", ts, ordersdomain.OrderStatusNotFulfilled)

	merged := Merge(
		[]*ordersdomain.Order{localCopy},
		[]*ordersdomain.Order{remoteCopy, mergeOrder("2", ts.Add(time.Hour), ordersdomain.OrderStatusCanceled)},
	)

	require.Len(t, merged, 2)
	for _, o := range merged {
		if o.ID == "1" {
			assert.Same(t, localCopy, o)
		}
	}
}

// TestMerge_SortedByRecency verifies descending order for sorted and
// reverse-sorted inputs alike.
func TestMerge_SortedByRecency(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	oldest := mergeOrder("a", base, ordersdomain.OrderStatusFulfilled)
	middle := mergeOrder("b", base.AddDate(0, 1, 0), ordersdomain.OrderStatusFulfilled)
	newest := mergeOrder("c", base.AddDate(0, 2, 0), ordersdomain.OrderStatusFulfilled)

	cases := []struct {
		name   string
		local  []*ordersdomain.Order
		remote []*ordersdomain.Order
	}{
		{"already sorted", []*ordersdomain.Order{newest, oldest}, []*ordersdomain.Order{middle}},
		{"reverse sorted", []*ordersdomain.Order{oldest, newest}, []*ordersdomain.Order{middle}},
		{"remote only", nil, []*ordersdomain.Order{oldest, newest, middle}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			merged := Merge(tc.local, tc.remote)
			require.Len(t, merged, 3)
			assert.Equal(t, "c", merged[0].ID)
			assert.Equal(t, "b", merged[1].ID)
			assert.Equal(t, "a", merged[2].ID)
		})
	}
}

// TestMerge_TieKeepsLocalFirst verifies equal timestamps keep insertion
// order, local before remote.
func TestMerge_TieKeepsLocalFirst(t *testing.T) {
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	local := mergeOrder("local", ts, ordersdomain.OrderStatusFulfilled)
	remote := mergeOrder("remote", ts, ordersdomain.OrderStatusFulfilled)

	merged := Merge([]*ordersdomain.Order{local}, []*ordersdomain.Order{remote})

	require.Len(t, merged, 2)
	assert.Equal(t, "local", merged[0].ID)
	assert.Equal(t, "remote", merged[1].ID)
}

// TestMerge_DropsNilRecords verifies malformed entries do not abort the batch.
func TestMerge_DropsNilRecords(t *testing.T) {
	ts := time.Now()

	merged := Merge(
		[]*ordersdomain.Order{nil, mergeOrder("1", ts, ordersdomain.OrderStatusFulfilled)},
		[]*ordersdomain.Order{nil},
	)

	require.Len(t, merged, 1)
	assert.Equal(t, "1", merged[0].ID)
}

// TestMerge_Empty verifies merging empty inputs yields an empty result.
func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
}
