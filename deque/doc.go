// Package deque
// Author: momentics <momentics@gmail.com>
//
// Double-ended queue over a mirrored virtual-memory buffer. Because the
// backing store's two halves alias the same physical pages, the live
// elements always form one contiguous range of virtual memory no matter
// how often head and tail have wrapped, and the whole queue is viewable
// as a plain slice. Pops at either end are O(1); pushes are amortized
// O(1); capacity grows in whole allocation granules.
//
// A Deque is single-owner: operations are ordinary synchronous calls with
// no internal locking, and concurrent use of one instance needs external
// synchronization.
package deque
