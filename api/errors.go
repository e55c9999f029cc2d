// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error values for the mirrored-memory subsystem.

package api

import "fmt"

// Errors returned by allocators, the allocation cache and the deque.
//
// ErrOutOfMemory is recoverable: the caller decides how to react to the
// operating system refusing memory. ErrRaceExhausted is not: it means the
// remap race could not be won within the retry budget, and continuing with
// a non-mirrored buffer would silently break the aliasing invariant, so
// the buffer layer escalates it to a panic after all partial mappings have
// been cleaned up.
var (
	ErrOutOfMemory   = fmt.Errorf("mirrored allocation refused by the operating system")
	ErrRaceExhausted = fmt.Errorf("mirror remap race lost too many times")
	ErrBadSize       = fmt.Errorf("size is not a positive multiple of twice the allocation granularity")
	ErrUnknownRegion = fmt.Errorf("region was not produced by this allocator")
)

// Precondition violations. These are programming errors: they are raised
// as panics, never returned, and never leave partial state behind.
var (
	ErrZeroSizedElem = fmt.Errorf("zero-sized element types are not supported")
	ErrOverAligned   = fmt.Errorf("element alignment exceeds the allocation granularity")
	ErrOddLength     = fmt.Errorf("mirrored buffer length must be even")
	ErrIndexRange    = fmt.Errorf("index out of range")
	ErrBadRange      = fmt.Errorf("malformed range bounds")
)
