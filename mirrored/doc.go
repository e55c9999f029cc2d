// Package mirrored
// Author: momentics <momentics@gmail.com>
//
// Mirrored virtual-memory buffers: allocations whose lower and upper
// halves alias the same physical pages, an allocation cache that recycles
// released regions by size, and the build-tag-selected platform
// allocators that negotiate the double mapping with the operating system.
// See alloc_linux.go, alloc_darwin.go, alloc_windows.go for the
// per-platform strategies and buffer.go for the typed view.
package mirrored
