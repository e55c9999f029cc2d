// Package api
// Author: momentics <momentics@gmail.com>
//
// Contracts for the mirrored-memory subsystem: the platform allocator
// interface and the shared error vocabulary used across mirrorq.
// Implementations live in the mirrored package (real, build-tag selected)
// and in the fake package (heap-backed test double).
package api
