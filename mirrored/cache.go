// File: mirrored/cache.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Allocation cache: recycles released mirrored regions keyed by their
// exact byte size, so repeated grow/shrink cycles skip the OS-level
// double-mapping negotiation.

package mirrored

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/mirrorq/api"
)

// Cache pools released mirrored regions for reuse. It owns every region
// parked in it: Release hands them all back to the operating system.
// Get, Put and Release are safe for concurrent use.
//
// The smallest class, regions of exactly twice the granularity, gets a
// dedicated free list; it is by far the most common allocation.
type Cache struct {
	sys api.Allocator

	mu       sync.Mutex
	smallest *queue.Queue         // regions of exactly 2*granularity bytes
	other    map[int]*queue.Queue // keyed by region byte size
}

// NewCache returns an empty cache drawing from sys on misses.
func NewCache(sys api.Allocator) *Cache {
	return &Cache{
		sys:      sys,
		smallest: queue.New(),
		other:    make(map[int]*queue.Queue),
	}
}

// Allocator returns the backing allocator.
func (c *Cache) Allocator() api.Allocator { return c.sys }

// Get returns a mirrored region of exactly size bytes, reusing a cached
// one when available and falling through to the allocator otherwise.
func (c *Cache) Get(size int) ([]byte, error) {
	if region := c.pop(size); region != nil {
		return region, nil
	}
	return c.sys.AllocateMirrored(size)
}

func (c *Cache) pop(size int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if size == 2*c.sys.Granularity() {
		if c.smallest.Length() > 0 {
			return c.smallest.Remove().([]byte)
		}
		return nil
	}
	if q, ok := c.other[size]; ok && q.Length() > 0 {
		return q.Remove().([]byte)
	}
	return nil
}

// Put parks a released region for reuse. It always accepts: nothing is
// ever dropped on the floor, and everything pushed here is deallocated by
// Release at the latest.
func (c *Cache) Put(region []byte) {
	if len(region) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(region) == 2*c.sys.Granularity() {
		c.smallest.Add(region)
		return
	}
	q, ok := c.other[len(region)]
	if !ok {
		q = queue.New()
		c.other[len(region)] = q
	}
	q.Add(region)
}

// Release returns every cached region to the operating system and leaves
// the cache empty but usable.
func (c *Cache) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for c.smallest.Length() > 0 {
		if err := c.sys.DeallocateMirrored(c.smallest.Remove().([]byte)); err != nil {
			errs = append(errs, err)
		}
	}
	for size, q := range c.other {
		for q.Length() > 0 {
			if err := c.sys.DeallocateMirrored(q.Remove().([]byte)); err != nil {
				errs = append(errs, fmt.Errorf("size %d: %w", size, err))
			}
		}
		delete(c.other, size)
	}
	return errors.Join(errs...)
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide cache backed by the platform
// allocator, so unrelated deques reuse each other's released regions
// instead of fragmenting new mappings.
func Default() *Cache {
	defaultOnce.Do(func() { defaultCache = NewCache(System()) })
	return defaultCache
}
