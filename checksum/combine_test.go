package checksum

import (
	"math/rand"
	"testing"
)

func TestCombine(t *testing.T) {
	cases := []struct {
		a, b uint16
		want uint16
	}{
		{a: 0, b: 0, want: 0},
		{a: 0x4500, b: 0x0073, want: 0x4573},
		{a: 0xffff, b: 0xffff, want: 0xffff},
		{a: 0x0001, b: 0xffff, want: 0x0001},
		{a: 0x8000, b: 0x8000, want: 0x0001},
		{a: 0x0001, b: 0xfffe, want: 0xffff},
	}
	for _, tc := range cases {
		if got := Combine(tc.a, tc.b); got != tc.want {
			t.Fatalf("Combine(%#04x, %#04x)=%#04x, want %#04x", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCombineEvenSplits(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	buf := make([]byte, 777)
	r.Read(buf)
	whole := Partial(buf)

	for at := 0; at <= len(buf); at += 2 {
		got := Combine(Partial(buf[:at]), Partial(buf[at:]))
		if got != whole {
			t.Fatalf("split at %d: got=%#04x want=%#04x", at, got, whole)
		}
	}
}

func TestCombineAtOddSplits(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	buf := make([]byte, 600)
	r.Read(buf)
	whole := Partial(buf)

	for at := 0; at <= len(buf); at++ {
		got := CombineAt(Partial(buf[:at]), Partial(buf[at:]), at)
		if got != whole {
			t.Fatalf("split at %d: got=%#04x want=%#04x", at, got, whole)
		}
	}
}

func TestCombineAtManySegments(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	buf := make([]byte, 4000)
	r.Read(buf)
	whole := Partial(buf)

	for round := 0; round < 50; round++ {
		var sum uint16
		off := 0
		for off < len(buf) {
			n := 1 + r.Intn(97)
			if off+n > len(buf) {
				n = len(buf) - off
			}
			sum = CombineAt(sum, Partial(buf[off:off+n]), off)
			off += n
		}
		if sum != whole {
			t.Fatalf("round %d: got=%#04x want=%#04x", round, sum, whole)
		}
	}
}
