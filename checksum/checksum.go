// Package checksum computes the Internet checksum (RFC 1071) of a byte
// buffer without the final one's complement, so callers can fold partial sums
// of pseudo-headers, headers and payloads together before complementing.
package checksum

import (
	"encoding/binary"
	"math/bits"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// wordSize is the width in bytes of one bulk load.
const wordSize = 8

// Partial returns the one's-complement sum of b read as big-endian 16-bit
// words. A trailing odd byte is the high byte of a zero-padded word. The
// result is not complemented; an empty buffer sums to 0.
//
// b may start at any address and have any length. Partial does not retain,
// modify or allocate.
func Partial(b []byte) uint16 {
	return partial(b, cpu.IsBigEndian)
}

// partial is Partial with the host byte order given explicitly, so both
// orders can be exercised on any host.
func partial(b []byte, bigEndian bool) uint16 {
	n := len(b)
	if n == 0 {
		return 0
	}

	head := headLen(b)
	if n-head < wordSize {
		head = n
	}

	var edge uint64
	for i := 0; i < head; i++ {
		edge += lane(b[i], i, bigEndian)
	}

	bulk := b[head:]
	bulk = bulk[:len(bulk)&^(wordSize-1)]
	if len(bulk) > 0 {
		s := sumWords(bulk, bigEndian)
		if head&1 != 0 {
			// bulk lanes start one byte out of phase with b
			s = bits.ReverseBytes16(s)
		}
		edge += uint64(s)
	}

	for i := head + len(bulk); i < n; i++ {
		edge += lane(b[i], i, bigEndian)
	}

	return network(fold(edge), bigEndian)
}

// headLen is the number of leading bytes of b before its backing array
// reaches an 8-byte aligned address.
func headLen(b []byte) int {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return int(-addr & (wordSize - 1))
}

// lane places v, found off bytes from the buffer start, into its half of a
// host-order 16-bit word.
func lane(v byte, off int, bigEndian bool) uint64 {
	if (off&1 == 0) == bigEndian {
		return uint64(v) << 8
	}
	return uint64(v)
}

// sumWords sums len(b)/8 host-order 64-bit words through a carry chain and
// folds the total to 16 bits. len(b) must be a multiple of wordSize.
func sumWords(b []byte, bigEndian bool) uint16 {
	var ac, carry uint64
	for len(b) >= 4*wordSize {
		ac, carry = bits.Add64(ac, load(b[0:8], bigEndian), carry)
		ac, carry = bits.Add64(ac, load(b[8:16], bigEndian), carry)
		ac, carry = bits.Add64(ac, load(b[16:24], bigEndian), carry)
		ac, carry = bits.Add64(ac, load(b[24:32], bigEndian), carry)
		b = b[4*wordSize:]
	}
	for len(b) >= wordSize {
		ac, carry = bits.Add64(ac, load(b[:wordSize], bigEndian), carry)
		b = b[wordSize:]
	}

	// 2^64 is 1 mod 0xFFFF: the last carry goes back in at bit 0. If that
	// add wraps, ac is 0 and the second carry cannot wrap again.
	ac, carry = bits.Add64(ac, carry, 0)
	ac += carry
	return fold(ac)
}

func load(b []byte, bigEndian bool) uint64 {
	if bigEndian {
		return binary.BigEndian.Uint64(b)
	}
	return binary.LittleEndian.Uint64(b)
}

// fold adds the bits above bit 15 back into the low 16 bits until none are
// left. Each step keeps v unchanged mod 0xFFFF.
func fold(v uint64) uint16 {
	for v>>16 != 0 {
		v = (v & 0xFFFF) + (v >> 16)
	}
	return uint16(v)
}

// network converts a host-order folded sum to network byte order.
func network(v uint16, bigEndian bool) uint16 {
	if bigEndian {
		return v
	}
	return bits.ReverseBytes16(v)
}
