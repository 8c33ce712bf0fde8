// Package packet builds reference IPv4/IPv6 TCP and UDP packets with
// gopacket and re-derives their checksums from partial sums.
package packet

import (
	"encoding/binary"
	"fmt"
	"inetsum/checksum"
	"net"
	"net/netip"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

type Flow struct {
	Src, Dst         netip.Addr
	SrcPort, DstPort uint16
	Proto            layers.IPProtocol
}

// Packet is a serialized IP packet whose checksums were filled in by
// gopacket.
type Packet struct {
	Flow      Flow
	Raw       []byte
	IPHeader  []byte // nil for IPv6
	Transport []byte // transport header + payload
	Pseudo    uint16 // partial sum of the pseudo-header
}

// Build serializes flow carrying payload with gopacket, checksums computed.
func Build(flow Flow, payload []byte) (*Packet, error) {
	if flow.Proto != layers.IPProtocolTCP && flow.Proto != layers.IPProtocolUDP {
		return nil, fmt.Errorf("unsupported protocol %v", flow.Proto)
	}
	if !flow.Src.IsValid() || !flow.Dst.IsValid() || flow.Src.Is4() != flow.Dst.Is4() {
		return nil, fmt.Errorf("invalid address pair %v -> %v", flow.Src, flow.Dst)
	}

	var network gopacket.NetworkLayer
	var netLayer gopacket.SerializableLayer
	if flow.Src.Is4() {
		ip := &layers.IPv4{
			Version:  4,
			IHL:      5,
			TOS:      184,
			TTL:      64,
			Flags:    layers.IPv4DontFragment,
			Protocol: flow.Proto,
			SrcIP:    net.IP(flow.Src.AsSlice()),
			DstIP:    net.IP(flow.Dst.AsSlice()),
		}
		network, netLayer = ip, ip
	} else {
		ip := &layers.IPv6{
			Version:    6,
			HopLimit:   64,
			NextHeader: flow.Proto,
			SrcIP:      net.IP(flow.Src.AsSlice()),
			DstIP:      net.IP(flow.Dst.AsSlice()),
		}
		network, netLayer = ip, ip
	}

	var transport gopacket.SerializableLayer
	switch flow.Proto {
	case layers.IPProtocolTCP:
		tcp := &layers.TCP{
			SrcPort: layers.TCPPort(flow.SrcPort),
			DstPort: layers.TCPPort(flow.DstPort),
			Seq:     1,
			Ack:     1,
			ACK:     true,
			PSH:     true,
			Window:  65535,
		}
		if err := tcp.SetNetworkLayerForChecksum(network); err != nil {
			return nil, err
		}
		transport = tcp
	case layers.IPProtocolUDP:
		udp := &layers.UDP{
			SrcPort: layers.UDPPort(flow.SrcPort),
			DstPort: layers.UDPPort(flow.DstPort),
		}
		if err := udp.SetNetworkLayerForChecksum(network); err != nil {
			return nil, err
		}
		transport = udp
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, netLayer, transport, gopacket.Payload(payload)); err != nil {
		return nil, fmt.Errorf("failed to serialize packet: %w", err)
	}

	raw := append([]byte(nil), buf.Bytes()...)
	p := &Packet{Flow: flow, Raw: raw}
	if flow.Src.Is4() {
		ihl := int(raw[0]&0x0f) * 4
		p.IPHeader = raw[:ihl]
		p.Transport = raw[ihl:]
		p.Pseudo = PseudoSumIPv4(flow.Src.As4(), flow.Dst.As4(), uint8(flow.Proto), uint16(len(p.Transport)))
	} else {
		p.Transport = raw[40:]
		p.Pseudo = PseudoSumIPv6(flow.Src.As16(), flow.Dst.As16(), uint8(flow.Proto), uint32(len(p.Transport)))
	}
	return p, nil
}

// checksumOffset is the position of the checksum field in the transport
// header.
func (p *Packet) checksumOffset() int {
	if p.Flow.Proto == layers.IPProtocolUDP {
		return 6
	}
	return 16
}

// Field returns the transport checksum gopacket wrote.
func (p *Packet) Field() uint16 {
	off := p.checksumOffset()
	return binary.BigEndian.Uint16(p.Transport[off : off+2])
}

// Recompute derives the transport checksum field from partial sums: the
// pseudo-header, the header up to the checksum field, and the rest of the
// segment split at split (any offset, odd included).
func (p *Packet) Recompute(split int) uint16 {
	seg := append([]byte(nil), p.Transport...)
	off := p.checksumOffset()
	seg[off], seg[off+1] = 0, 0

	if split < 0 || split > len(seg) {
		split = len(seg)
	}
	sum := checksum.Combine(p.Pseudo, checksum.Partial(seg[:split]))
	sum = checksum.CombineAt(sum, checksum.Partial(seg[split:]), split)

	v := ^sum
	if p.Flow.Proto == layers.IPProtocolUDP && v == 0 {
		v = 0xFFFF
	}
	return v
}

// CrossCheck reports whether the checksums gopacket wrote agree with the ones
// derived from partial sums.
func (p *Packet) CrossCheck(split int) error {
	if p.IPHeader != nil {
		// a header carrying a correct checksum sums to all ones
		if s := checksum.Partial(p.IPHeader); s != 0xFFFF {
			return fmt.Errorf("IPv4 header sums to %#04x, want 0xffff", s)
		}
	}

	udp := p.Flow.Proto == layers.IPProtocolUDP
	field := p.Field()
	if got := p.Recompute(split); !sameField(got, field, udp) {
		return fmt.Errorf("%v transport checksum %#04x, gopacket wrote %#04x (split %d)", p.Flow.Proto, got, field, split)
	}

	seg := append([]byte(nil), p.Transport...)
	off := p.checksumOffset()
	seg[off], seg[off+1] = 0, 0
	if got := FieldValue(p.Pseudo, seg, udp); !sameField(got, field, udp) {
		return fmt.Errorf("%v field value %#04x, gopacket wrote %#04x", p.Flow.Proto, got, field)
	}

	// the segment as sent, pseudo-header included, sums to all ones
	if s := checksum.Combine(p.Pseudo, checksum.Partial(p.Transport)); s != 0xFFFF {
		return fmt.Errorf("%v segment sums to %#04x, want 0xffff", p.Flow.Proto, s)
	}
	return nil
}

// sameField compares checksum field values. For UDP a computed zero may be
// sent as either 0x0000 or 0xffff depending on the encoder.
func sameField(a, b uint16, udp bool) bool {
	if a == b {
		return true
	}
	return udp && a^b == 0xFFFF && (a == 0 || b == 0)
}
