package packet

import (
	"encoding/binary"
	"inetsum/checksum"
)

// PseudoSumIPv4 returns the partial checksum of the RFC 793/768 IPv4
// pseudo-header.
func PseudoSumIPv4(src, dst [4]byte, proto uint8, length uint16) uint16 {
	var ph [12]byte
	copy(ph[0:4], src[:])
	copy(ph[4:8], dst[:])
	ph[8] = 0
	ph[9] = proto
	binary.BigEndian.PutUint16(ph[10:12], length)
	return checksum.Partial(ph[:])
}

// PseudoSumIPv6 returns the partial checksum of the RFC 8200 IPv6
// pseudo-header.
func PseudoSumIPv6(src, dst [16]byte, nextHeader uint8, length uint32) uint16 {
	var ph [40]byte
	copy(ph[0:16], src[:])
	copy(ph[16:32], dst[:])
	binary.BigEndian.PutUint32(ph[32:36], length)
	ph[39] = nextHeader
	return checksum.Partial(ph[:])
}

// FieldValue is the value a sender stores in a transport checksum field:
// the complement of pseudo +₁₆ segment, where seg has its checksum field
// zeroed. UDP transmits a computed zero as all ones.
func FieldValue(pseudo uint16, seg []byte, udp bool) uint16 {
	v := ^checksum.Combine(pseudo, checksum.Partial(seg))
	if udp && v == 0 {
		v = 0xFFFF
	}
	return v
}
