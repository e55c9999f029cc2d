// File: fake/allocator.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package fake provides a heap-backed allocator double. Its regions are
// ordinary Go slices without real mirroring, which is enough for cache
// bookkeeping and index-logic tests; the mirror invariant itself has to
// be exercised against the system allocator.
package fake

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/momentics/mirrorq/api"
)

// Allocator implements api.Allocator on the Go heap and records every
// region it hands out, so tests can assert exact-once release and count
// how often the cache actually fell through to the backend.
type Allocator struct {
	gran int

	mu     sync.Mutex
	live   map[uintptr]int // region base -> byte size
	allocs int
	frees  int
	fail   error
}

// NewAllocator returns a fake with the given granularity. Any positive
// value works; tests usually pick a small one to keep regions tiny.
func NewAllocator(gran int) *Allocator {
	if gran <= 0 {
		panic("fake: granularity must be positive")
	}
	return &Allocator{gran: gran, live: make(map[uintptr]int)}
}

func (a *Allocator) Granularity() int { return a.gran }

func (a *Allocator) AllocateMirrored(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.fail; err != nil {
		a.fail = nil
		return nil, err
	}
	if size <= 0 || size%(2*a.gran) != 0 {
		return nil, fmt.Errorf("fake: %d bytes with granularity %d: %w", size, a.gran, api.ErrBadSize)
	}
	region := make([]byte, size)
	a.live[base(region)] = size
	a.allocs++
	return region, nil
}

func (a *Allocator) DeallocateMirrored(region []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	sz, ok := a.live[base(region)]
	if !ok || sz != len(region) {
		return fmt.Errorf("fake: %d bytes at %#x: %w", len(region), base(region), api.ErrUnknownRegion)
	}
	delete(a.live, base(region))
	a.frees++
	return nil
}

// FailNext makes the next AllocateMirrored call return err and then
// clears itself.
func (a *Allocator) FailNext(err error) {
	a.mu.Lock()
	a.fail = err
	a.mu.Unlock()
}

// Live returns how many regions are currently not deallocated.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Allocs returns how many allocations the backend served; cache hits do
// not show up here.
func (a *Allocator) Allocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

// Frees returns how many regions were deallocated.
func (a *Allocator) Frees() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frees
}

func base(region []byte) uintptr { return uintptr(unsafe.Pointer(&region[0])) }

var _ api.Allocator = (*Allocator)(nil)
