// File: mirrored/size_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package mirrored

import "testing"

// Sizing is pure arithmetic, so it is pinned against a fixed granularity
// rather than the host's.
func TestRegionSizeRounding(t *testing.T) {
	const gran = 4096
	const u64 = 8

	cases := []struct {
		n, esize int
		want     int
	}{
		// Up to one granule of payload the region is always two granules.
		{2, u64, 2 * gran},
		{gran / 32, u64, 2 * gran},
		{gran / 16, u64, 2 * gran},
		{gran / 8, u64, 2 * gran},
		{2 * gran / u64, u64, 2 * gran},
		// Beyond that, round the half up to whole granules.
		{3 * gran / u64, u64, 4 * gran},
		{4 * gran / u64, u64, 4 * gran},
		{5 * gran / u64, u64, 6 * gran},
		// A half that is not a granule multiple rounds up, never down.
		{2*gran/u64 + 2, u64, 4 * gran},
	}
	for _, c := range cases {
		if got := regionSize(c.n, c.esize, gran); got != c.want {
			t.Errorf("regionSize(%d, %d): got %d, want %d", c.n, c.esize, got, c.want)
		}
	}
}

// Element sizes that do not divide the granularity must still land the
// mirror seam on an element boundary.
func TestRegionSizeSeamAlignment(t *testing.T) {
	const gran = 4096
	for _, esize := range []int{3, 12, 24, 48, 56} {
		for _, n := range []int{2, 10, 342, 1000} {
			size := regionSize(n, esize, gran)
			if size%(2*gran) != 0 {
				t.Fatalf("esize %d n %d: size %d not an even granule multiple", esize, n, size)
			}
			if (size/2)%esize != 0 {
				t.Fatalf("esize %d n %d: seam at %d splits an element", esize, n, size/2)
			}
			if size/esize < n {
				t.Fatalf("esize %d n %d: %d elements fit, want at least %d", esize, n, size/esize, n)
			}
			if (size/esize)%2 != 0 {
				t.Fatalf("esize %d n %d: odd element length %d", esize, n, size/esize)
			}
		}
	}
}
