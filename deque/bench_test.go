// File: deque/bench_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package deque_test

import (
	"testing"

	"github.com/momentics/mirrorq/deque"
)

func BenchmarkPushBack(b *testing.B) {
	d := deque.New[int]()
	defer d.Close()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := d.PushBack(i); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRotate(b *testing.B) {
	d := deque.New[int]()
	defer d.Close()
	for i := 0; i < 1024; i++ {
		if err := d.PushBack(i); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, _ := d.PopFront()
		if err := d.PushBack(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSliceScan(b *testing.B) {
	d := deque.New[int]()
	defer d.Close()
	for i := 0; i < 4096; i++ {
		if err := d.PushBack(i); err != nil {
			b.Fatal(err)
		}
	}
	// Shift the window onto the seam so the scan exercises the mirror.
	for i := 0; i < 2048; i++ {
		v, _ := d.PopFront()
		if err := d.PushBack(v); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sum := 0
		for _, v := range d.Slice() {
			sum += v
		}
		if sum == -1 {
			b.Fatal("unreachable")
		}
	}
}
