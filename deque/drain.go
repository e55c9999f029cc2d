// File: deque/drain.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package deque

import (
	"fmt"
	"iter"

	"github.com/momentics/mirrorq/api"
)

// Drain removes the elements in [start, end) and returns them as a
// one-shot sequence. The range is gone before Drain returns — the
// untouched tail is shifted forward over the gap — so consuming the
// sequence fully, partially or not at all leaves the deque in the same
// state. Panics on malformed bounds.
func (d *Deque[T]) Drain(start, end int) iter.Seq[T] {
	n := d.Len()
	if start < 0 || start > end || end > n {
		panic(fmt.Errorf("deque: drain [%d, %d) with length %d: %w", start, end, n, api.ErrBadRange))
	}
	removed := make([]T, end-start)
	w := d.Slice()
	copy(removed, w[start:end])
	copy(w[start:], w[end:])
	var zero T
	for i := n - (end - start); i < n; i++ {
		w[i] = zero
	}
	d.moveTail(-(end - start))
	return func(yield func(T) bool) {
		for _, v := range removed {
			if !yield(v) {
				return
			}
		}
	}
}
