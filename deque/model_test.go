// File: deque/model_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Randomized equivalence against a plain slice model.

package deque_test

import (
	"math/rand"
	"testing"

	"github.com/momentics/mirrorq/deque"
)

func TestModelEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(0xd00d))
	d := deque.New[int]()
	defer d.Close()
	var model []int

	for step := 0; step < 20000; step++ {
		switch op := rng.Intn(10); op {
		case 0, 1, 2:
			v := rng.Int()
			if err := d.PushBack(v); err != nil {
				t.Fatal(err)
			}
			model = append(model, v)
		case 3, 4:
			v := rng.Int()
			if err := d.PushFront(v); err != nil {
				t.Fatal(err)
			}
			model = append([]int{v}, model...)
		case 5, 6:
			v, ok := d.PopFront()
			if ok != (len(model) > 0) {
				t.Fatalf("step %d: PopFront ok=%v with model length %d", step, ok, len(model))
			}
			if ok {
				if v != model[0] {
					t.Fatalf("step %d: PopFront %d, model %d", step, v, model[0])
				}
				model = model[1:]
			}
		case 7:
			v, ok := d.PopBack()
			if ok != (len(model) > 0) {
				t.Fatalf("step %d: PopBack ok=%v with model length %d", step, ok, len(model))
			}
			if ok {
				if v != model[len(model)-1] {
					t.Fatalf("step %d: PopBack %d, model %d", step, v, model[len(model)-1])
				}
				model = model[:len(model)-1]
			}
		case 8:
			if len(model) == 0 {
				continue
			}
			i := rng.Intn(len(model) + 1)
			v := rng.Int()
			if err := d.Insert(i, v); err != nil {
				t.Fatal(err)
			}
			model = append(model[:i], append([]int{v}, model[i:]...)...)
		case 9:
			if len(model) == 0 {
				continue
			}
			i := rng.Intn(len(model))
			if v := d.Remove(i); v != model[i] {
				t.Fatalf("step %d: Remove(%d) = %d, model %d", step, i, v, model[i])
			}
			model = append(model[:i], model[i+1:]...)
		}

		if d.Len() != len(model) {
			t.Fatalf("step %d: length %d, model %d", step, d.Len(), len(model))
		}
		if step%64 == 0 {
			for i, want := range model {
				if got := d.At(i); got != want {
					t.Fatalf("step %d: index %d: %d, model %d", step, i, got, want)
				}
			}
			w := d.Slice()
			if len(w) != len(model) {
				t.Fatalf("step %d: window length %d, model %d", step, len(w), len(model))
			}
		}
	}
}
