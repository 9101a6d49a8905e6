package catalog

import (
	"context"
	"sync"
)

// LoadFunc produces a catalog, typically by reading files
type LoadFunc func(ctx context.Context) (*Catalog, error)

// Cache loads the catalog once per process. The first outcome, catalog or
// error, is kept; a failed load is not retried.
type Cache struct {
	once    sync.Once
	load    LoadFunc
	catalog *Catalog
	err     error
}

// NewCache wraps a loader
func NewCache(load LoadFunc) *Cache {
	return &Cache{load: load}
}

// NewFileCache is a Cache over LoadFiles
func NewFileCache(paths ...string) *Cache {
	return NewCache(func(ctx context.Context) (*Catalog, error) {
		return LoadFiles(ctx, paths...)
	})
}

// Get returns the loaded catalog, loading it on first use
func (c *Cache) Get(ctx context.Context) (*Catalog, error) {
	c.once.Do(func() {
		c.catalog, c.err = c.load(ctx)
	})
	return c.catalog, c.err
}
