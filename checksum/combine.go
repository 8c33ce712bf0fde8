package checksum

import "math/bits"

// Combine returns the one's-complement sum a +₁₆ b of two partial checksums.
//
// a must cover an even number of bytes, or b must be the sum of a segment
// placed accordingly (see CombineAt).
func Combine(a, b uint16) uint16 {
	v := uint32(a) + uint32(b)
	return uint16(v + v>>16)
}

// CombineAt adds b, the partial checksum of a segment starting offset bytes
// into the logical buffer, to a. A segment at an odd offset has its word
// halves swapped relative to the whole, so b is byte-swapped first.
func CombineAt(a, b uint16, offset int) uint16 {
	if offset&1 != 0 {
		b = bits.ReverseBytes16(b)
	}
	return Combine(a, b)
}
