package categorizer

import (
	"sync"
)

// MemoryCache is an in-process keyword -> category cache.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: make(map[string]string),
	}
}

// Get returns the cached category for a normalized keyword.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	category, found := c.store[key]
	return category, found
}

// Set records the category for a normalized keyword.
func (c *MemoryCache) Set(key string, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = category
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]string)
}

// Size returns the number of cached keywords.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.store)
}
