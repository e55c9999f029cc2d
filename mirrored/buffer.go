// File: mirrored/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Typed view over one mirrored allocation.

package mirrored

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/momentics/mirrorq/api"
)

// Buffer is typed storage over one mirrored allocation. Its length is
// always even, and the elements at i and i+Len()/2 denote the same
// physical memory for every i below the midpoint. A zero Buffer holds no
// allocation and is ready to use.
//
// The region lives outside the Go heap: the garbage collector never scans
// it, so element types holding Go pointers do not keep their referents
// alive. Intended for pointer-free payloads.
type Buffer[T any] struct {
	region []byte // exact slice produced by the cache, nil when empty
	elems  []T
	cache  *Cache
}

// NewBuffer returns an empty buffer carrying no allocation.
func NewBuffer[T any]() Buffer[T] {
	if unsafe.Sizeof(*new(T)) == 0 {
		panic(api.ErrZeroSizedElem)
	}
	return Buffer[T]{}
}

// Uninitialized returns a buffer with room for at least n elements of T.
// n must be even so the storage splits into two mirrored halves; n == 0
// allocates nothing. The resulting Len can exceed n because the byte size
// is rounded up to whole allocation granules. Element contents start out
// arbitrary.
//
// Zero-sized element types, element alignments above the granularity and
// odd n are precondition violations and panic. An allocator that lost the
// remap race beyond its retry budget also panics: a partially mirrored
// region is not representable as an ordinary error value. Plain
// out-of-memory comes back as a wrapped api.ErrOutOfMemory.
func Uninitialized[T any](n int, c *Cache) (Buffer[T], error) {
	var zero T
	esize := int(unsafe.Sizeof(zero))
	if esize == 0 {
		panic(api.ErrZeroSizedElem)
	}
	gran := c.sys.Granularity()
	if int(unsafe.Alignof(zero)) > gran {
		panic(api.ErrOverAligned)
	}
	if n == 0 {
		return Buffer[T]{}, nil
	}
	if n%2 != 0 {
		panic(fmt.Errorf("mirrored: %d elements: %w", n, api.ErrOddLength))
	}
	size := regionSize(n, esize, gran)
	region, err := c.Get(size)
	if err != nil {
		if errors.Is(err, api.ErrRaceExhausted) {
			panic(err)
		}
		return Buffer[T]{}, fmt.Errorf("mirrored buffer of %d elements: %w", n, err)
	}
	return Buffer[T]{
		region: region,
		elems:  unsafe.Slice((*T)(unsafe.Pointer(&region[0])), size/esize),
		cache:  c,
	}, nil
}

// regionSize returns the doubled byte size backing n elements of esize
// bytes each: the half size is rounded up to whole granules, then
// advanced to the next granule count whose byte size is an exact element
// multiple, so the mirror seam always falls on an element boundary.
func regionSize(n, esize, gran int) int {
	units := ((n/2)*esize + gran - 1) / gran
	if units == 0 {
		units = 1
	}
	for (units*gran)%esize != 0 {
		units++
	}
	return 2 * units * gran
}

// Len returns the element length of the full doubled view. Always even.
func (b *Buffer[T]) Len() int { return len(b.elems) }

// IsEmpty reports whether the buffer carries no allocation.
func (b *Buffer[T]) IsEmpty() bool { return len(b.elems) == 0 }

// Slice exposes the full doubled view, mirror half included. Callers are
// responsible for confining themselves to the window they initialized.
func (b *Buffer[T]) Slice() []T { return b.elems }

// Get returns the element at i in the full doubled view.
func (b *Buffer[T]) Get(i int) T { return b.elems[i] }

// Set stores v at i in the full doubled view.
func (b *Buffer[T]) Set(i int, v T) { b.elems[i] = v }

// Clone allocates a fresh buffer of identical length and copies the lower
// half; the allocator re-establishes the mirror, so the upper half never
// needs copying.
func (b *Buffer[T]) Clone() (Buffer[T], error) {
	if b.IsEmpty() {
		return Buffer[T]{}, nil
	}
	c, err := Uninitialized[T](b.Len(), b.cache)
	if err != nil {
		return Buffer[T]{}, err
	}
	mid := b.Len() / 2
	copy(c.elems[:mid], b.elems[:mid])
	return c, nil
}

// Release parks the region back in the cache the buffer was built from
// and resets the buffer to empty. Safe on an empty buffer; releasing
// twice is a no-op.
func (b *Buffer[T]) Release() {
	if b.region == nil {
		return
	}
	b.cache.Put(b.region)
	b.region = nil
	b.elems = nil
	b.cache = nil
}
