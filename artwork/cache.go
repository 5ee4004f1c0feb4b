// Package artwork prefetches and addresses the still images that stand in for video frames.
package artwork

import (
	"sync"

	"github.com/framecast/framecast/frame"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Submitter accepts a fire-and-forget load. It must not block.
type Submitter interface {
	Submit(ref string) bool
}

type entry struct {
	loaded bool
	err    error
}

// Cache is the bounded, insertion-ordered set of prefetched frame artwork.
//
// Playback moves forward, so insertion order approximates usefulness and the oldest entry
// is evicted first. Order reflects request order, never load-completion order.
type Cache struct {
	mu       sync.Mutex
	entries  *orderedmap.OrderedMap[string, *entry]
	capacity int
	submit   Submitter
}

// NewCache creates a cache holding at most capacity references (at least one).
func NewCache(capacity int, submit Submitter) *Cache {
	return &Cache{
		entries:  orderedmap.New[string, *entry](),
		capacity: max(capacity, 1),
		submit:   submit,
	}
}

// Request prefetches the artwork of frame i unless it is already cached.
// It never blocks: the load itself runs elsewhere and its outcome is not awaited.
func (c *Cache) Request(i int) {
	if i < 1 {
		return
	}
	ref := frame.Ref(i)

	c.mu.Lock()
	if _, ok := c.entries.Get(ref); ok {
		c.mu.Unlock()
		return
	}
	c.entries.Set(ref, &entry{})
	c.evict()
	c.mu.Unlock()

	if c.submit != nil {
		c.submit.Submit(ref)
	}
}

// evict drops the oldest entry while the cache is over capacity. Callers hold mu.
func (c *Cache) evict() {
	for c.entries.Len() > c.capacity {
		oldest := c.entries.Oldest()
		if oldest == nil {
			return
		}
		c.entries.Delete(oldest.Key)
	}
}

// MarkLoaded records the outcome of a load. Outcomes for evicted references are dropped.
func (c *Cache) MarkLoaded(ref string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries.Get(ref); ok {
		e.loaded = err == nil
		e.err = err
	}
}

// Contains reports whether ref is cached.
func (c *Cache) Contains(ref string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries.Get(ref)
	return ok
}

// Loaded reports whether the load of ref completed successfully.
func (c *Cache) Loaded(ref string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(ref)
	return ok && e.loaded
}

// Refs returns the cached references, oldest first.
func (c *Cache) Refs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	refs := make([]string, 0, c.entries.Len())
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		refs = append(refs, pair.Key)
	}
	return refs
}

// Len returns the number of cached references.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Capacity returns the maximum number of cached references.
func (c *Cache) Capacity() int {
	return c.capacity
}
