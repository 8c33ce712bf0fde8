package buffer

import "testing"

func TestGetLength(t *testing.T) {
	for _, n := range []int{0, 1, 2, DefaultSize, DefaultSize + 2, 4 * DefaultSize} {
		bp := Get(n)
		if len(*bp) != n {
			t.Fatalf("Get(%d) len=%d", n, len(*bp))
		}
		Put(bp)
	}
	Put(nil)
}
