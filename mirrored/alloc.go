// File: mirrored/alloc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform allocator front-end. The per-OS mapping strategies live in the
// build-tagged alloc_*.go files; exactly one of them is compiled in.

package mirrored

import (
	"fmt"
	"sync"

	"github.com/momentics/mirrorq/api"
)

var (
	granOnce sync.Once
	granSize int
)

// Granularity returns the platform allocation granularity. Every region
// size handled by this package is a multiple of it.
func Granularity() int {
	granOnce.Do(func() { granSize = osGranularity() })
	return granSize
}

type sysAllocator struct{}

// System returns the allocator for the target operating system.
func System() api.Allocator { return sysAllocator{} }

func (sysAllocator) Granularity() int { return Granularity() }

func (sysAllocator) AllocateMirrored(size int) ([]byte, error) {
	if g := Granularity(); size <= 0 || size%(2*g) != 0 {
		return nil, fmt.Errorf("mirrored: %d bytes with granularity %d: %w", size, g, api.ErrBadSize)
	}
	return osAllocateMirrored(size)
}

func (sysAllocator) DeallocateMirrored(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	return osDeallocateMirrored(region)
}

var _ api.Allocator = sysAllocator{}
