// Package cache holds the advisory TTL cache for aggregated dashboard
// payloads and the invalidation bus that write paths publish to. Losing the
// cache never affects correctness, only latency.
package cache

import (
	"fmt"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// MetricsCache caches aggregated payloads per (viewer identity, computation
// date) with a bounded TTL. Stored values must be plain serializable data,
// never live records with lazy relations.
type MetricsCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

func NewMetricsCache(ttl time.Duration) *MetricsCache {
	return &MetricsCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

func key(viewerID uint, date string, scope string) string {
	return fmt.Sprintf("%d|%s|%s", viewerID, date, scope)
}

func (c *MetricsCache) Get(viewerID uint, date string, scope string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key(viewerID, date, scope)]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key(viewerID, date, scope))
		return nil, false
	}
	return e.value, true
}

func (c *MetricsCache) Set(viewerID uint, date string, scope string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(viewerID, date, scope)] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// InvalidateAll clears the whole metrics namespace. Invalidation is
// deliberately coarse: correctness over precision.
func (c *MetricsCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// InvalidateViewer clears every entry belonging to one viewer identity.
func (c *MetricsCache) InvalidateViewer(viewerID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := fmt.Sprintf("%d|", viewerID)
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}

// Len reports the current entry count.
func (c *MetricsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
