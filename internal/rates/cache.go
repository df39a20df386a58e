package rates

import (
	"sync"
	"time"

	"github.com/picanha/dash/internal/domain"
)

type cacheEntry struct {
	rates     domain.RateMap
	base      string
	expiresAt time.Time
}

// rateCache keeps recently fetched rate maps per base currency so that
// switching the base back and forth does not hammer the API.
type rateCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newRateCache(ttl time.Duration) *rateCache {
	return &rateCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *rateCache) get(base string) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[base]
	if !ok || time.Now().After(entry.expiresAt) {
		return cacheEntry{}, false
	}
	return entry, true
}

func (c *rateCache) set(base string, rates domain.RateMap, resolvedBase string) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[base] = cacheEntry{
		rates:     rates,
		base:      resolvedBase,
		expiresAt: time.Now().Add(c.ttl),
	}
}
