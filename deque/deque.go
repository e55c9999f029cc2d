// File: deque/deque.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core deque state and the head/tail bookkeeping that keeps the live
// window inside the mirrored view.

package deque

import (
	"fmt"

	"github.com/momentics/mirrorq/api"
	"github.com/momentics/mirrorq/mirrored"
)

// Deque is a growable double-ended queue backed by mirrored memory.
//
// Invariants between operations: 0 <= head <= tail, tail-head == Len(),
// Len() <= Cap(), tail < 2*Cap() whenever Cap() > 0. The live elements
// occupy buffer offsets [head, tail), a range that never wraps: whenever
// it would, both indices shift by Cap() to relocate the window into the
// other mirrored half.
type Deque[T any] struct {
	head  int
	tail  int
	buf   mirrored.Buffer[T]
	cache *mirrored.Cache
}

// New returns an empty deque backed by the process-wide allocation cache.
func New[T any]() *Deque[T] { return NewIn[T](mirrored.Default()) }

// NewIn returns an empty deque drawing its storage from c.
func NewIn[T any](c *mirrored.Cache) *Deque[T] {
	return &Deque[T]{buf: mirrored.NewBuffer[T](), cache: c}
}

// WithCapacity returns an empty deque able to hold at least n elements
// without reallocating.
func WithCapacity[T any](n int) (*Deque[T], error) {
	return WithCapacityIn[T](n, mirrored.Default())
}

// WithCapacityIn is WithCapacity drawing storage from c.
func WithCapacityIn[T any](n int, c *mirrored.Cache) (*Deque[T], error) {
	buf, err := mirrored.Uninitialized[T](2*n, c)
	if err != nil {
		return nil, err
	}
	return &Deque[T]{buf: buf, cache: c}, nil
}

// Len returns the number of live elements.
func (d *Deque[T]) Len() int { return d.tail - d.head }

// Cap returns how many elements fit without reallocating.
func (d *Deque[T]) Cap() int { return d.buf.Len() / 2 }

// IsEmpty reports whether the deque holds no elements.
func (d *Deque[T]) IsEmpty() bool { return d.Len() == 0 }

// IsFull reports whether the next push has to grow the backing store.
func (d *Deque[T]) IsFull() bool { return d.Len() == d.Cap() }

// Slice returns the live window as one contiguous, mutable slice — the
// point of the mirrored backing. The view stays valid until the next
// operation that moves head or tail or reallocates.
func (d *Deque[T]) Slice() []T {
	if d.Len() == 0 {
		return nil
	}
	return d.buf.Slice()[d.head:d.tail]
}

// At returns the element i positions from the front. Panics when i is
// out of range.
func (d *Deque[T]) At(i int) T {
	d.checkIndex(i)
	return d.buf.Get(d.head + i)
}

// Front returns the first element.
func (d *Deque[T]) Front() (T, bool) {
	if d.IsEmpty() {
		var zero T
		return zero, false
	}
	return d.buf.Get(d.head), true
}

// Back returns the last element.
func (d *Deque[T]) Back() (T, bool) {
	if d.IsEmpty() {
		var zero T
		return zero, false
	}
	return d.buf.Get(d.tail - 1), true
}

// FrontRef returns a mutable reference to the first element, or nil when
// empty. Validity follows the same rules as Slice.
func (d *Deque[T]) FrontRef() *T {
	if d.IsEmpty() {
		return nil
	}
	return &d.buf.Slice()[d.head]
}

// BackRef returns a mutable reference to the last element, or nil when
// empty.
func (d *Deque[T]) BackRef() *T {
	if d.IsEmpty() {
		return nil
	}
	return &d.buf.Slice()[d.tail-1]
}

// moveHead shifts head by x. A head that would go negative re-centers the
// window into the upper mirrored half by shifting both indices +Cap().
func (d *Deque[T]) moveHead(x int) {
	nh := d.head + x
	if nh < 0 {
		nh += d.Cap()
		d.tail += d.Cap()
	}
	d.head = nh
}

// moveTail shifts tail by x. A tail that would leave the doubled view
// re-centers the window into the lower mirrored half by shifting both
// indices -Cap().
func (d *Deque[T]) moveTail(x int) {
	nt := d.tail + x
	if c := d.Cap(); c > 0 && nt >= 2*c {
		d.head -= c
		nt -= c
	}
	d.tail = nt
}

// PushBack appends v. The only possible error is a failed growth
// allocation, in which case the deque is unchanged.
func (d *Deque[T]) PushBack(v T) error {
	if d.IsFull() {
		if err := d.grow(); err != nil {
			return err
		}
	}
	d.moveTail(1)
	d.buf.Set(d.tail-1, v)
	return nil
}

// PushFront prepends v.
func (d *Deque[T]) PushFront(v T) error {
	if d.IsFull() {
		if err := d.grow(); err != nil {
			return err
		}
	}
	d.moveHead(-1)
	d.buf.Set(d.head, v)
	return nil
}

// PopFront removes and returns the first element.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if d.IsEmpty() {
		return zero, false
	}
	v := d.buf.Get(d.head)
	d.buf.Set(d.head, zero) // the slot is logically gone
	d.moveHead(1)
	return v, true
}

// PopBack removes and returns the last element.
func (d *Deque[T]) PopBack() (T, bool) {
	var zero T
	if d.IsEmpty() {
		return zero, false
	}
	v := d.buf.Get(d.tail - 1)
	d.buf.Set(d.tail-1, zero)
	d.moveTail(-1)
	return v, true
}

// growPolicy picks the next capacity: the first growth jumps straight to
// 4, afterwards the capacity doubles. The backing store is granule-sized
// either way, so doubling costs nothing extra.
func (d *Deque[T]) growPolicy() int {
	if d.Cap() == 0 {
		return 4
	}
	return d.Cap() * 2
}

func (d *Deque[T]) grow() error {
	return d.reserveCapacity(d.growPolicy())
}

// reserveCapacity reallocates to hold newCap elements: fresh buffer, live
// elements copied to its start, head and tail reset. No-op when the
// current capacity already suffices. The old buffer is released only
// after the new one is in place, so a failed allocation leaves the deque
// untouched.
func (d *Deque[T]) reserveCapacity(newCap int) error {
	if newCap <= d.Cap() {
		return nil
	}
	nb, err := mirrored.Uninitialized[T](2*newCap, d.cache)
	if err != nil {
		return err
	}
	n := d.Len()
	copy(nb.Slice()[:n], d.Slice())
	old := d.buf
	d.buf = nb
	d.head = 0
	d.tail = n
	old.Release()
	return nil
}

// Reserve grows the capacity by at least additional elements, in at most
// one reallocation. No-op when enough slack already exists.
func (d *Deque[T]) Reserve(additional int) error {
	return d.reserveCapacity(d.Cap() + additional)
}

// ShrinkToFit reallocates to the smallest granule-rounded capacity that
// still holds the live elements. Capacity never grows here, but it can
// stay above Len because of granule rounding. No-op on an empty deque.
func (d *Deque[T]) ShrinkToFit() error {
	if d.IsEmpty() {
		return nil
	}
	n := d.Len()
	nb, err := mirrored.Uninitialized[T](2*n, d.cache)
	if err != nil {
		return err
	}
	copy(nb.Slice()[:n], d.Slice())
	old := d.buf
	d.buf = nb
	d.head = 0
	d.tail = n
	old.Release()
	return nil
}

// Truncate drops elements from the back until at most n remain. It never
// moves head and never shrinks the capacity.
func (d *Deque[T]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= d.Len() {
		return
	}
	var zero T
	es := d.buf.Slice()
	for i := d.head + n; i < d.tail; i++ {
		es[i] = zero
	}
	d.tail = d.head + n
}

// Clear removes all elements, keeping the capacity.
func (d *Deque[T]) Clear() { d.Truncate(0) }

// Swap exchanges the elements at i and j.
func (d *Deque[T]) Swap(i, j int) {
	d.checkIndex(i)
	d.checkIndex(j)
	w := d.Slice()
	w[i], w[j] = w[j], w[i]
}

// Close drops the contents and returns the backing storage to the cache.
// The deque is empty and reusable afterwards; closing twice is a no-op.
func (d *Deque[T]) Close() {
	d.Clear()
	d.head = 0
	d.tail = 0
	d.buf.Release()
}

func (d *Deque[T]) checkIndex(i int) {
	if i < 0 || i >= d.Len() {
		panic(fmt.Errorf("deque: index %d with length %d: %w", i, d.Len(), api.ErrIndexRange))
	}
}
