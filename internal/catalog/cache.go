package catalog

import "sync"

// cacheKey identifies one encoding of one surface.
type cacheKey struct {
	surface  string
	encoding string
}

// Cache is a simple in-memory cache for encoded meshes.
type Cache struct {
	data map[cacheKey][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[cacheKey][]byte),
	}
}

// Get retrieves an encoding of surface from cache.
func (c *Cache) Get(surface, encoding string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[cacheKey{surface, encoding}]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an encoding of surface in cache.
func (c *Cache) Set(surface, encoding string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[cacheKey{surface, encoding}] = data
}

// DropSurface removes every encoding cached for surface.
func (c *Cache) DropSurface(surface string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if key.surface == surface {
			delete(c.data, key)
		}
	}
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[cacheKey][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
