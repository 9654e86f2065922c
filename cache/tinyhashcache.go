// Package cache implements the bounded FIFO dedup cache used at the
// ingest path's front door to reject already-seen wire blobs.
package cache

import (
	"container/list"
	"sync"
)

// TinyHashCache is a bounded FIFO set of recently-seen byte blobs. It
// provides a single atomic "insert if absent" operation so the ingest
// path never has a check-then-act window on membership.
type TinyHashCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	index    map[string]*list.Element
}

// New creates a TinyHashCache with the given fixed capacity.
func New(capacity int) *TinyHashCache {
	return &TinyHashCache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

// Insert reports whether blob was not already present, inserting it if
// so. When the cache is at capacity, the oldest entry is evicted first.
// A duplicate insert refreshes the blob's position in the eviction
// order, so a blob seen repeatedly stays cached while quiet ones age out.
func (c *TinyHashCache) Insert(blob []byte) bool {
	key := string(blob)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.index[key]; exists {
		c.order.MoveToBack(elem)
		return false
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.index, oldest.Value.(string))
		}
	}

	elem := c.order.PushBack(key)
	c.index[key] = elem
	return true
}

// Contains reports whether blob is currently cached, without mutating
// the cache.
func (c *TinyHashCache) Contains(blob []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.index[string(blob)]
	return exists
}

// Len returns the number of blobs currently cached.
func (c *TinyHashCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
