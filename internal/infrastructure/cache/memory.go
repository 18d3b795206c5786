package cache

import (
	"sync"
	"time"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

const (
	defaultMaxEntries = 1000
	defaultTTL        = 15 * time.Minute
	sweepInterval     = 5 * time.Minute
)

// entry is a single cached basket comparison with its insertion time
type entry struct {
	value      *domain.BasketComparison
	insertedAt time.Time
}

// ResultCache is a thread-safe, bounded in-memory cache for whole-basket
// results. Entries expire after a fixed TTL; when the cache is full the
// oldest entry is evicted. The clock is injected so tests control expiry.
type ResultCache struct {
	mu         sync.RWMutex
	data       map[string]entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time

	hits   uint64
	misses uint64

	stop chan struct{}
}

// Options configures a ResultCache. Zero values fall back to defaults.
type Options struct {
	MaxEntries int
	TTL        time.Duration
	Clock      func() time.Time
}

// NewResultCache creates a bounded TTL cache and starts its background
// sweeper. Call Stop to release the sweeper goroutine.
func NewResultCache(opts Options) *ResultCache {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	c := &ResultCache{
		data:       make(map[string]entry),
		maxEntries: opts.MaxEntries,
		ttl:        opts.TTL,
		now:        opts.Clock,
		stop:       make(chan struct{}),
	}

	go c.sweepExpired()

	return c
}

// Get returns the cached comparison for the basket key, counting hits and
// misses. Expired entries count as misses.
func (c *ResultCache) Get(key string) (*domain.BasketComparison, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok || c.now().Sub(e.insertedAt) >= c.ttl {
		c.misses++
		return nil, false
	}

	c.hits++
	return e.value, true
}

// Set stores a comparison under the basket key. Last write for a key wins.
// When the cache is at capacity the oldest entry is evicted first.
func (c *ResultCache) Set(key string, value *domain.BasketComparison) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		c.evictOldestLocked()
	}

	c.data[key] = entry{value: value, insertedAt: c.now()}
}

// Clear drops every entry. The next lookup for any key misses.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry)
}

// Stats returns the current key count and hit/miss counters.
func (c *ResultCache) Stats() domain.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CacheStats{
		Keys:   len(c.data),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

// Stop terminates the background sweeper.
func (c *ResultCache) Stop() {
	close(c.stop)
}

// evictOldestLocked removes the entry with the earliest insertion time.
// Caller must hold the write lock.
func (c *ResultCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true

	for key, e := range c.data {
		if first || e.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.insertedAt
			first = false
		}
	}
	if !first {
		delete(c.data, oldestKey)
	}
}

// sweepExpired periodically removes expired entries so the map does not
// accumulate dead keys between lookups.
func (c *ResultCache) sweepExpired() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, e := range c.data {
				if now.Sub(e.insertedAt) >= c.ttl {
					delete(c.data, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
