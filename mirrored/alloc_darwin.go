//go:build darwin

// File: mirrored/alloc_darwin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Darwin shared-memory-object strategy: back the buffer with a SysV
// segment of half the size, probe for a doubled address range, then
// attach the segment twice into that range. The range is unreserved
// between the probe and the attaches, so either attach can lose it to a
// concurrent mapping; on a loss everything is detached and the whole
// sequence retried.

package mirrored

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/mirrorq/api"
)

// maxRemapAttempts bounds the attach race loop.
const maxRemapAttempts = 5

func osGranularity() int { return unix.Getpagesize() }

func osAllocateMirrored(size int) ([]byte, error) {
	half := size / 2
	for attempt := 0; attempt < maxRemapAttempts; attempt++ {
		id, err := unix.SysvShmGet(unix.IPC_PRIVATE, half, unix.IPC_CREAT|0o600)
		if err != nil {
			return nil, fmt.Errorf("shmget %d bytes: %v: %w", half, err, api.ErrOutOfMemory)
		}
		base, err := probeRange(size)
		if err != nil {
			removeSegment(id)
			return nil, err
		}
		lower, err := unix.SysvShmAttach(id, base, 0)
		if err != nil {
			removeSegment(id)
			continue
		}
		if _, err := unix.SysvShmAttach(id, base+uintptr(half), 0); err != nil {
			if derr := unix.SysvShmDetach(lower); derr != nil {
				panic(fmt.Sprintf("mirrored: unwind after lost attach race leaked a segment: %v", derr))
			}
			removeSegment(id)
			continue
		}
		// Mark the segment for destruction; it now lives exactly as long
		// as the two attachments.
		removeSegment(id)
		return unsafe.Slice((*byte)(unsafe.Pointer(base)), size), nil
	}
	return nil, fmt.Errorf("mirrored: %d attempts: %w", maxRemapAttempts, api.ErrRaceExhausted)
}

// probeRange discovers a base address able to hold size contiguous bytes
// by mapping and immediately unmapping an anonymous range. The kernel
// tends to hand the same range to the shmat calls that follow.
func probeRange(size int) (uintptr, error) {
	probe, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, fmt.Errorf("probe mmap %d bytes: %v: %w", size, err, api.ErrOutOfMemory)
	}
	base := uintptr(unsafe.Pointer(&probe[0]))
	if err := unix.Munmap(probe); err != nil {
		panic(fmt.Sprintf("mirrored: releasing probe mapping leaked it: %v", err))
	}
	return base, nil
}

func removeSegment(id int) {
	if _, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil); err != nil {
		panic(fmt.Sprintf("mirrored: sysv segment %d leaked: %v", id, err))
	}
}

// osDeallocateMirrored detaches each mapped half separately; the segment
// itself was already marked for destruction at allocation time.
func osDeallocateMirrored(region []byte) error {
	half := len(region) / 2
	if err := unix.SysvShmDetach(region[:half]); err != nil {
		return fmt.Errorf("shmdt lower half: %w", err)
	}
	if err := unix.SysvShmDetach(region[half:]); err != nil {
		return fmt.Errorf("shmdt upper half: %w", err)
	}
	return nil
}
