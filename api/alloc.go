// File: api/alloc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mirrored-memory allocator contract. A mirrored region is a contiguous
// virtual range whose lower and upper halves alias the same physical pages:
// a write through either half is immediately visible through the other.

package api

// Allocator produces and releases mirrored memory regions.
//
// Exactly one real implementation is compiled in per target OS; the fake
// package provides a heap-backed double without real mirroring for tests
// that only exercise bookkeeping.
type Allocator interface {
	// Granularity returns the smallest unit the platform's mapping
	// primitives operate on. All region sizes are multiples of it.
	Granularity() int

	// AllocateMirrored returns a region of exactly size bytes, where size
	// must be a positive multiple of 2*Granularity(). The first and second
	// halves of the returned slice alias the same physical memory.
	//
	// A refusal by the operating system is reported as ErrOutOfMemory.
	// Exhausting the remap retry budget is reported as ErrRaceExhausted;
	// in both cases every partially acquired mapping has already been
	// released.
	AllocateMirrored(size int) ([]byte, error)

	// DeallocateMirrored releases a region previously returned by
	// AllocateMirrored. It must be called with the exact slice that was
	// returned; passing anything else is undefined.
	DeallocateMirrored(region []byte) error
}
