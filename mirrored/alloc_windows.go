//go:build windows

// File: mirrored/alloc_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows strategy: a pagefile-backed section of half the size, mapped
// twice into an address range discovered by reserving and immediately
// releasing it. The range is up for grabs between the release and the two
// MapViewOfFileEx calls; a lost race unwinds and retries. The section
// handle is closed as soon as both views exist (the views keep the
// section alive), so deallocation is just two unmaps.

package mirrored

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/momentics/mirrorq/api"
)

// maxRemapAttempts bounds the view-placement race loop.
const maxRemapAttempts = 5

// SEC_COMMIT is not exported by x/sys/windows.
const secCommit = 0x8000000

var (
	kern32              = windows.NewLazySystemDLL("kernel32.dll")
	procMapViewOfFileEx = kern32.NewProc("MapViewOfFileEx")
	procGetSystemInfo   = kern32.NewProc("GetSystemInfo")
)

type systemInfo struct {
	processorArchitecture     uint16
	reserved                  uint16
	pageSize                  uint32
	minimumApplicationAddress uintptr
	maximumApplicationAddress uintptr
	activeProcessorMask       uintptr
	numberOfProcessors        uint32
	processorType             uint32
	allocationGranularity     uint32
	processorLevel            uint16
	processorRevision         uint16
}

// osGranularity is the allocation granularity, not the page size: file
// views can only be placed on granularity boundaries.
func osGranularity() int {
	var si systemInfo
	procGetSystemInfo.Call(uintptr(unsafe.Pointer(&si)))
	return int(si.allocationGranularity)
}

func osAllocateMirrored(size int) ([]byte, error) {
	half := size / 2
	for attempt := 0; attempt < maxRemapAttempts; attempt++ {
		section, err := windows.CreateFileMapping(windows.InvalidHandle, nil,
			windows.PAGE_READWRITE|secCommit,
			uint32(uint64(half)>>32), uint32(half), nil)
		if err != nil {
			return nil, fmt.Errorf("CreateFileMapping %d bytes: %v: %w", half, err, api.ErrOutOfMemory)
		}
		base, err := windows.VirtualAlloc(0, uintptr(size),
			windows.MEM_RESERVE, windows.PAGE_NOACCESS)
		if err != nil {
			closeSection(section)
			return nil, fmt.Errorf("VirtualAlloc reserve %d bytes: %v: %w", size, err, api.ErrOutOfMemory)
		}
		// Give the reservation back; the views below race everything else
		// in the process for the range it occupied.
		if err := windows.VirtualFree(base, 0, windows.MEM_RELEASE); err != nil {
			panic(fmt.Sprintf("mirrored: releasing reservation leaked it: %v", err))
		}
		lower, err := mapViewAt(section, base, half)
		if err != nil {
			closeSection(section)
			continue
		}
		if _, err := mapViewAt(section, base+uintptr(half), half); err != nil {
			unmapView(lower)
			closeSection(section)
			continue
		}
		closeSection(section)
		return unsafe.Slice((*byte)(unsafe.Pointer(base)), size), nil
	}
	return nil, fmt.Errorf("mirrored: %d attempts: %w", maxRemapAttempts, api.ErrRaceExhausted)
}

// mapViewAt maps size bytes of section at exactly addr; with a non-zero
// base address MapViewOfFileEx either maps there or fails.
func mapViewAt(section windows.Handle, addr uintptr, size int) (uintptr, error) {
	r, _, callErr := procMapViewOfFileEx.Call(uintptr(section),
		uintptr(windows.FILE_MAP_READ|windows.FILE_MAP_WRITE),
		0, 0, uintptr(size), addr)
	if r == 0 {
		return 0, fmt.Errorf("MapViewOfFileEx at %#x: %w", addr, callErr)
	}
	return r, nil
}

func unmapView(addr uintptr) {
	if err := windows.UnmapViewOfFile(addr); err != nil {
		panic(fmt.Sprintf("mirrored: view at %#x leaked: %v", addr, err))
	}
}

func closeSection(h windows.Handle) {
	if err := windows.CloseHandle(h); err != nil {
		panic(fmt.Sprintf("mirrored: section handle leaked: %v", err))
	}
}

func osDeallocateMirrored(region []byte) error {
	base := uintptr(unsafe.Pointer(&region[0]))
	half := len(region) / 2
	if err := windows.UnmapViewOfFile(base); err != nil {
		return fmt.Errorf("UnmapViewOfFile lower half: %w", err)
	}
	if err := windows.UnmapViewOfFile(base + uintptr(half)); err != nil {
		return fmt.Errorf("UnmapViewOfFile upper half: %w", err)
	}
	return nil
}
