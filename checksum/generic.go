package checksum

import "encoding/binary"

// Generic computes the same value as Partial one 16-bit word at a time. It
// is the scalar baseline Partial is measured and checked against.
func Generic(b []byte) uint16 {
	var sum uint32
	n := len(b)
	i := 0
	for n-i >= 2 {
		sum += uint32(binary.BigEndian.Uint16(b[i : i+2]))
		i += 2
		// keep headroom for the next word
		if sum&0x80000000 != 0 {
			sum = (sum & 0xFFFF) + (sum >> 16)
		}
	}
	if i < n {
		// odd trailing byte, big-endian: high byte
		sum += uint32(b[i]) << 8
	}
	for (sum >> 16) != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return uint16(sum)
}
