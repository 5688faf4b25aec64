// Package cache keeps recently loaded catalogs in memory so gallery
// requests do not reread the catalog file every time.
package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/deppmann/biocards/pkg/cards"
)

const catalogKey = "catalog"

// Loader reads the catalog from storage.
type Loader func(ctx context.Context) (*cards.Catalog, error)

// Cache holds the loaded catalog and derived query results for a short TTL.
type Cache struct {
	store *gocache.Cache
	load  Loader
	mu    sync.Mutex // serializes loads
}

// New creates a cache reading through load. Entries expire after ttl and
// are purged every cleanupInterval.
func New(load Loader, ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, cleanupInterval),
		load:  load,
	}
}

// Catalog returns the cached catalog, loading it on a miss. Callers must
// not modify the returned catalog.
func (c *Cache) Catalog(ctx context.Context) (*cards.Catalog, error) {
	if v, ok := c.store.Get(catalogKey); ok {
		return v.(*cards.Catalog), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.store.Get(catalogKey); ok {
		return v.(*cards.Catalog), nil
	}
	catalog, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.store.SetDefault(catalogKey, catalog)
	return catalog, nil
}

// Get retrieves a derived value.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a derived value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.SetDefault(key, value)
}

// Invalidate drops everything, forcing the next request to reload.
func (c *Cache) Invalidate() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
