//go:build linux && (amd64 || arm64)

// File: mirrored/alloc_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux map-twice-then-remap strategy: map the doubled range, free the
// upper half, then mremap the lower half's pages into the hole. Another
// mapping may claim the hole between the free and the remap; losing that
// race means unwinding everything and trying again.
//
// Raw syscalls are used throughout: the x/sys mmap wrappers track whole
// regions by their backing slice and cannot express a partial unmap.

package mirrored

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/mirrorq/api"
)

// maxRemapAttempts bounds the race loop. Exceeding it is reported as
// api.ErrRaceExhausted with everything unwound.
const maxRemapAttempts = 3

func osGranularity() int { return unix.Getpagesize() }

// mmapAnon maps size bytes of anonymous memory. MAP_SHARED is required:
// mremap duplicates a mapping (old_size == 0) only for shared pages.
func mmapAnon(size int) (uintptr, error) {
	addr, _, errno := unix.Syscall6(unix.SYS_MMAP,
		0, uintptr(size),
		uintptr(unix.PROT_READ|unix.PROT_WRITE),
		uintptr(unix.MAP_SHARED|unix.MAP_ANONYMOUS|unix.MAP_NORESERVE),
		^uintptr(0), 0)
	if errno != 0 {
		return 0, fmt.Errorf("mmap %d bytes: %v: %w", size, errno, api.ErrOutOfMemory)
	}
	return addr, nil
}

func munmapRange(addr uintptr, size int) error {
	if _, _, errno := unix.Syscall(unix.SYS_MUNMAP, addr, uintptr(size), 0); errno != 0 {
		return fmt.Errorf("munmap %d bytes at %#x: %v", size, addr, errno)
	}
	return nil
}

// remapInto maps the pages backing [from, from+size) at address to.
func remapInto(from, to uintptr, size int) error {
	r, _, errno := unix.Syscall6(unix.SYS_MREMAP,
		from, 0, uintptr(size),
		uintptr(unix.MREMAP_MAYMOVE|unix.MREMAP_FIXED),
		to, 0)
	if errno != 0 {
		return fmt.Errorf("mremap to %#x: %v", to, errno)
	}
	if r != to {
		return fmt.Errorf("mremap landed at %#x, wanted %#x", r, to)
	}
	return nil
}

func osAllocateMirrored(size int) ([]byte, error) {
	half := size / 2
	for attempt := 0; attempt < maxRemapAttempts; attempt++ {
		base, err := mmapAnon(size)
		if err != nil {
			return nil, err
		}
		if err := munmapRange(base+uintptr(half), half); err != nil {
			if uerr := munmapRange(base, size); uerr != nil {
				// Returning would leak the surviving mapping.
				panic(fmt.Sprintf("mirrored: unwind after failed split leaked a mapping: %v", uerr))
			}
			return nil, fmt.Errorf("mirrored: splitting mapping: %w", err)
		}
		if err := remapInto(base, base+uintptr(half), half); err == nil {
			return unsafe.Slice((*byte)(unsafe.Pointer(base)), size), nil
		}
		// Lost the race for the hole. Drop the lower half and retry.
		if err := munmapRange(base, half); err != nil {
			panic(fmt.Sprintf("mirrored: unwind after lost remap race leaked a mapping: %v", err))
		}
	}
	return nil, fmt.Errorf("mirrored: %d attempts: %w", maxRemapAttempts, api.ErrRaceExhausted)
}

// osDeallocateMirrored unmaps both halves; munmap accepts a range that
// spans the two mappings, so one call releases the doubled region.
func osDeallocateMirrored(region []byte) error {
	return munmapRange(uintptr(unsafe.Pointer(&region[0])), len(region))
}
