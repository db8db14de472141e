package service

import (
	"sort"
	"sync"
	"time"

	"orders-dashboard/internal/features/search/domain"
)

const (
	// DefaultCacheTTL is the read-time freshness window for cached results.
	DefaultCacheTTL = 30 * time.Second
	// DefaultCacheMaxEntries bounds the number of retained results.
	DefaultCacheMaxEntries = 10
)

// Cache memoizes merged search results per filter key.
//
// A read is a hit only while the result is younger than the TTL; stale
// entries are not purged on read, only superseded by write-time eviction.
// Writes evict by result recency: when the bound is exceeded, the entries
// with the newest SearchedAt stamps survive. A frequently re-read older
// search can therefore still be evicted; that is the intended policy, not
// an accidental departure from LRU.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]*domain.SearchResult
}

// NewCache creates a result cache. Non-positive ttl or max fall back to
// the defaults.
func NewCache(ttl time.Duration, max int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if max <= 0 {
		max = DefaultCacheMaxEntries
	}
	return &Cache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]*domain.SearchResult),
	}
}

// Get returns the cached result for key if present and still fresh.
func (c *Cache) Get(key string) (*domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(result.SearchedAt) >= c.ttl {
		return nil, false
	}
	return result, true
}

// Put stores the result unconditionally, then trims the cache to the bound,
// keeping the entries with the most recent SearchedAt stamps.
func (c *Cache) Put(key string, result *domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = result
	if len(c.entries) <= c.max {
		return
	}

	type entry struct {
		key    string
		result *domain.SearchResult
	}
	all := make([]entry, 0, len(c.entries))
	for k, r := range c.entries {
		all = append(all, entry{key: k, result: r})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].result.SearchedAt.After(all[j].result.SearchedAt)
	})

	c.entries = make(map[string]*domain.SearchResult, c.max)
	for _, e := range all[:c.max] {
		c.entries[e.key] = e.result
	}
}

// Clear drops every cached result.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*domain.SearchResult)
}

// Len returns the number of physically present entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
