package packet

import (
	"math/rand"
	"net/netip"
	"testing"

	"github.com/gopacket/gopacket/layers"
)

func TestPseudoSumIPv4(t *testing.T) {
	src := [4]byte{192, 168, 0, 1}
	dst := [4]byte{192, 168, 0, 199}
	if got := PseudoSumIPv4(src, dst, 17, 0x5f); got != 0x8289 {
		t.Fatalf("PseudoSumIPv4()=%#04x, want 0x8289", got)
	}
}

func TestPseudoSumIPv6MatchesMappedLayout(t *testing.T) {
	src := netip.MustParseAddr("2001:db8::1").As16()
	dst := netip.MustParseAddr("2001:db8::2").As16()
	// 2001+0db8 from each address, their last words, length and next header
	want := uint32(0x2001+0x0db8)*2 + 0x0001 + 0x0002 + 0x0014 + 0x0006
	for want > 0xFFFF {
		want = (want & 0xFFFF) + (want >> 16)
	}
	if got := PseudoSumIPv6(src, dst, 6, 20); got != uint16(want) {
		t.Fatalf("PseudoSumIPv6()=%#04x, want %#04x", got, want)
	}
}

func TestCrossCheckAgainstGopacket(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	flows := []Flow{
		{Src: netip.MustParseAddr("10.0.0.1"), Dst: netip.MustParseAddr("10.0.0.2"), SrcPort: 40000, DstPort: 443, Proto: layers.IPProtocolTCP},
		{Src: netip.MustParseAddr("192.168.1.10"), Dst: netip.MustParseAddr("8.8.8.8"), SrcPort: 5353, DstPort: 53, Proto: layers.IPProtocolUDP},
		{Src: netip.MustParseAddr("2001:db8::1"), Dst: netip.MustParseAddr("2001:db8::2"), SrcPort: 51000, DstPort: 80, Proto: layers.IPProtocolTCP},
		{Src: netip.MustParseAddr("fe80::1"), Dst: netip.MustParseAddr("ff02::fb"), SrcPort: 5353, DstPort: 5353, Proto: layers.IPProtocolUDP},
	}

	for _, flow := range flows {
		for _, n := range []int{0, 1, 2, 3, 17, 64, 511, 1400, 1401} {
			payload := make([]byte, n)
			r.Read(payload)
			p, err := Build(flow, payload)
			if err != nil {
				t.Fatalf("Build(%v, %d) err=%v", flow.Proto, n, err)
			}
			for _, split := range []int{0, 1, 7, 8, len(p.Transport) / 2, len(p.Transport) - 1, len(p.Transport)} {
				if err := p.CrossCheck(split); err != nil {
					t.Fatalf("%v -> %v payload=%d: %v", flow.Src, flow.Dst, n, err)
				}
			}
		}
	}
}

func TestRecomputeDetectsCorruption(t *testing.T) {
	flow := Flow{Src: netip.MustParseAddr("10.0.0.1"), Dst: netip.MustParseAddr("10.0.0.2"), SrcPort: 1, DstPort: 2, Proto: layers.IPProtocolTCP}
	p, err := Build(flow, []byte("hello, checksum"))
	if err != nil {
		t.Fatal(err)
	}
	p.Transport[len(p.Transport)-1] ^= 0x01
	if err := p.CrossCheck(len(p.Transport)); err == nil {
		t.Fatalf("CrossCheck() accepted a corrupted payload")
	}
}

func TestBuildRejects(t *testing.T) {
	v4 := netip.MustParseAddr("10.0.0.1")
	v6 := netip.MustParseAddr("2001:db8::1")
	cases := []Flow{
		{Src: v4, Dst: v4, Proto: layers.IPProtocolICMPv4},
		{Src: v4, Dst: v6, Proto: layers.IPProtocolTCP},
		{Dst: v4, Proto: layers.IPProtocolUDP},
	}
	for _, flow := range cases {
		if _, err := Build(flow, nil); err == nil {
			t.Fatalf("Build(%+v) expected error", flow)
		}
	}
}
