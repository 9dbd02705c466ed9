// Package patcache memoises compiled patterns keyed by their source text.
package patcache

import (
	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

// Cache is a bounded, concurrency-safe cache from pattern source to a
// compiled value. Admission is asynchronous: a Put may not be visible to
// an immediately following Get, and may be dropped entirely.
type Cache[V any] struct {
	c *ristretto.Cache
}

// New creates a cache holding roughly maxEntries compiled values.
func New[V any](maxEntries int64) (*Cache[V], error) {
	if maxEntries <= 0 {
		return nil, errors.Errorf("patcache: maxEntries must be positive, got %d", maxEntries)
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		KeyToHash:          keyToHash,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "patcache: create cache")
	}
	return &Cache[V]{c: c}, nil
}

// Get returns the value cached under pattern.
func (c *Cache[V]) Get(pattern string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	v, ok := c.c.Get(pattern)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}

// Put offers value for caching under pattern.
func (c *Cache[V]) Put(pattern string, value V) {
	if c == nil {
		return
	}
	c.c.Set(pattern, value, 1)
}

// Wait blocks until pending Puts have been applied.
func (c *Cache[V]) Wait() {
	if c != nil {
		c.c.Wait()
	}
}

// Close stops the cache's background goroutines.
func (c *Cache[V]) Close() {
	if c != nil {
		c.c.Close()
	}
}

func keyToHash(key interface{}) (uint64, uint64) {
	s, ok := key.(string)
	if !ok {
		return 0, 0
	}
	h := xxh3.HashString128(s)
	return h.Lo, h.Hi
}
