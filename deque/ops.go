// File: deque/ops.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Positional operations. All of them lean on the contiguous live window:
// shifting a sub-range is a single copy over the flat view, with no
// wraparound-aware loop anywhere.

package deque

import (
	"fmt"

	"github.com/momentics/mirrorq/api"
)

// Insert places v at index i, shifting the elements from i on one slot
// toward the back. Panics when i > Len(); returns an error only when a
// required growth allocation fails, leaving the deque unchanged.
func (d *Deque[T]) Insert(i int, v T) error {
	n := d.Len()
	if i < 0 || i > n {
		panic(fmt.Errorf("deque: insert at %d with length %d: %w", i, n, api.ErrIndexRange))
	}
	if d.IsFull() {
		if err := d.grow(); err != nil {
			return err
		}
	}
	es := d.buf.Slice()
	copy(es[d.head+i+1:d.tail+1], es[d.head+i:d.tail])
	es[d.head+i] = v
	d.moveTail(1)
	return nil
}

// Remove deletes and returns the element at i, shifting everything after
// it one slot toward the front. Panics when i is out of range.
func (d *Deque[T]) Remove(i int) T {
	d.checkIndex(i)
	es := d.buf.Slice()
	v := es[d.head+i]
	copy(es[d.head+i:d.tail-1], es[d.head+i+1:d.tail])
	var zero T
	es[d.tail-1] = zero
	d.moveTail(-1)
	return v
}

// SwapRemoveBack removes the element at i in O(1) by swapping the last
// element into its place, giving up the order of the remaining elements.
// Returns false on an empty deque; panics when i is out of range.
func (d *Deque[T]) SwapRemoveBack(i int) (T, bool) {
	if d.IsEmpty() {
		var zero T
		return zero, false
	}
	d.Swap(i, d.Len()-1)
	return d.PopBack()
}

// SwapRemoveFront removes the element at i in O(1) by swapping the first
// element into its place.
func (d *Deque[T]) SwapRemoveFront(i int) (T, bool) {
	if d.IsEmpty() {
		var zero T
		return zero, false
	}
	d.Swap(i, 0)
	return d.PopFront()
}

// SplitOff removes the elements from at onward and returns them as a new
// deque drawing from the same cache. The receiver keeps [0, at) and its
// capacity. Panics when at > Len(); a failed allocation for the new deque
// leaves the receiver unchanged.
func (d *Deque[T]) SplitOff(at int) (*Deque[T], error) {
	n := d.Len()
	if at < 0 || at > n {
		panic(fmt.Errorf("deque: split at %d with length %d: %w", at, n, api.ErrIndexRange))
	}
	moved := n - at
	other, err := WithCapacityIn[T](moved, d.cache)
	if err != nil {
		return nil, err
	}
	if moved > 0 {
		copy(other.buf.Slice()[:moved], d.Slice()[at:])
		other.tail = moved
		d.Truncate(at)
	}
	return other, nil
}

// Retain keeps only the elements the predicate accepts, in place and in
// order.
func (d *Deque[T]) Retain(keep func(T) bool) {
	w := d.Slice()
	del := 0
	for i, v := range w {
		if !keep(v) {
			del++
		} else if del > 0 {
			w[i-del] = w[i]
		}
	}
	if del > 0 {
		d.Truncate(len(w) - del)
	}
}

// Resize grows or shrinks the deque to exactly n elements, filling new
// back slots with copies of v.
func (d *Deque[T]) Resize(n int, v T) error {
	if n < 0 {
		panic(fmt.Errorf("deque: resize to %d: %w", n, api.ErrIndexRange))
	}
	cur := d.Len()
	if n <= cur {
		d.Truncate(n)
		return nil
	}
	if err := d.Reserve(n - cur); err != nil {
		return err
	}
	for d.Len() < n {
		_ = d.PushBack(v) // capacity reserved, cannot fail
	}
	return nil
}
