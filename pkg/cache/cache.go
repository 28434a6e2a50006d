// Package cache provides the bounded memoization layer for expensive
// per-parameter derived state ("Info" objects). Several profile instances
// built from the same physical parameters and GSParams share one Info;
// the cache guarantees that the expensive build runs at most once per key
// even under concurrent construction.
//
// Eviction is bookkeeping-only: the cache drops its lookup entry for the
// least-recently-used key, but callers holding the returned pointer keep
// the object alive. A later request for an evicted key simply rebuilds.
package cache

import (
	"container/list"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is the entry limit used by New when given a
// non-positive capacity.
const DefaultCapacity = 8

type entry[K comparable, V any] struct {
	key   K
	value *V
}

// Cache is a bounded LRU keyed by any comparable type. The zero value is
// not usable; construct with New.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]*list.Element
	order    *list.List // front = most recently used
	group    singleflight.Group
}

// New returns a cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		capacity: capacity,
		entries:  make(map[K]*list.Element),
		order:    list.New(),
	}
}

// GetOrBuild returns the cached value for key, building it with builder on
// a miss. Concurrent callers for the same key share one builder run: one
// goroutine builds, the rest wait and receive the same pointer. Builder
// errors are returned to every waiter and are never cached, so a later
// request re-attempts the build.
func (c *Cache[K, V]) GetOrBuild(key K, builder func() (*V, error)) (*V, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}
	// singleflight keys on strings; fmt.Sprintf("%v") is a faithful
	// encoding for the comparable key types used here (flat structs of
	// numbers).
	v, err, _ := c.group.Do(fmt.Sprintf("%v", key), func() (interface{}, error) {
		// A racing builder may have inserted the key between the lookup
		// above and the singleflight barrier.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		built, err := builder()
		if err != nil {
			return nil, err
		}
		c.insert(key, built)
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*V), nil
}

// Contains reports whether key currently has a cache entry, without
// touching the recency order.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the current number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) lookup(key K) (*V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

func (c *Cache[K, V]) insert(key K, value *V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*entry[K, V]).value = value
		return
	}
	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry[K, V]).key)
	}
}
