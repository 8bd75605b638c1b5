package crosswire

import (
	"context"
	"sync"
)

// Cache memoizes resolved dependency values for one goroutine or request.
// Caches are never shared between contexts created by separate Bind calls;
// the mutex only protects callers that hand one bound context to several
// goroutines.
type Cache struct {
	mu     sync.Mutex
	values map[string]any
}

// NewCache constructs an empty Cache.
func NewCache() *Cache {
	return &Cache{values: make(map[string]any)}
}

// Get returns the cached value for name.
func (c *Cache) Get(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[name]
	return value, ok
}

// Set records value under name.
func (c *Cache) Set(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[name] = value
}

// Delete removes name and reports whether it was present.
func (c *Cache) Delete(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[name]; !ok {
		return false
	}
	delete(c.values, name)
	return true
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.values = make(map[string]any)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Names returns the cached names sorted alphabetically.
func (c *Cache) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.values)
}

// cacheKey scopes a bound Cache to the registry that created it so one
// context can carry caches for several registries.
type cacheKey struct {
	registry *Registry
}

func withCache(ctx context.Context, registry *Registry, cache *Cache) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cacheKey{registry: registry}, cache)
}

func cacheFrom(ctx context.Context, registry *Registry) (*Cache, bool) {
	if ctx == nil {
		return nil, false
	}
	cache, ok := ctx.Value(cacheKey{registry: registry}).(*Cache)
	return cache, ok && cache != nil
}
