// Package cache is the in-process response cache. A single Cache is
// constructed at boot and shared by every cacheable route; entries are
// volatile and die with the process.
package cache

import (
	"sync"
	"time"
)

// Entry is one cached response payload.
type Entry struct {
	Body        []byte
	ContentType string
}

type item struct {
	entry     Entry
	expiresAt time.Time
}

// Cache is a TTL map keyed by request path. Expired items are treated as
// absent and dropped lazily on the next read.
type Cache struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		items: make(map[string]item),
		now:   time.Now,
	}
}

// Get returns the entry for key if present and unexpired.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	if c.now().After(it.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have refreshed it.
		if cur, still := c.items[key]; still && c.now().After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return Entry{}, false
	}
	return it.entry, true
}

// Set stores entry under key for ttl.
func (c *Cache) Set(key string, entry Entry, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = item{entry: entry, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Delete evicts key immediately. Used by the scraper to push new content
// past the homepage and RSS TTLs.
func (c *Cache) Delete(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.items, key)
	}
	c.mu.Unlock()
}
