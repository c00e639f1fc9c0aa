package assets

import (
	"sync"

	"github.com/Faultbox/brushc/pkg/material"
)

// Cache remembers resolved materials by key. A nil entry records a miss so
// missing textures are only searched for once.
type Cache struct {
	data map[string]*material.Material
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*material.Material),
	}
}

// Get retrieves an entry.
func (c *Cache) Get(key string) (*material.Material, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return m, ok
}

// Set stores an entry.
func (c *Cache) Set(key string, m *material.Material) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = m
}

// Clear drops every entry and resets the statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*material.Material)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
