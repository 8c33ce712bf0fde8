package selftest

import (
	"fmt"
	"inetsum/checksum"
	"inetsum/internal/conf"
	"inetsum/internal/flog"
	"inetsum/internal/packet"
	"io"
	"math/rand"
	"net/netip"

	"github.com/gopacket/gopacket/layers"
	"github.com/spf13/cobra"
)

var (
	confPath string
	seed     int64
	rounds   int
)

func init() {
	Cmd.Flags().StringVarP(&confPath, "config", "c", "config.yaml", "Path to the configuration file (defaults are used if it does not exist).")
	Cmd.Flags().Int64Var(&seed, "seed", 1, "Seed for generated buffers and packets.")
	Cmd.Flags().IntVarP(&rounds, "rounds", "n", 1000, "Number of generated packets to cross-check.")
}

var Cmd = &cobra.Command{
	Use:   "selftest",
	Short: "Checks the checksum implementation against RFC 1071 and gopacket.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := conf.Load(confPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		flog.SetLevel(cfg.Log.Level)
		if rounds < 0 {
			return fmt.Errorf("rounds must be >= 0")
		}
		return run(cmd.OutOrStdout(), seed, rounds)
	},
}

type check struct {
	name string
	fn   func(r *rand.Rand, rounds int) error
}

var checks = []check{
	{name: "rfc1071 vector", fn: checkVector},
	{name: "alignment", fn: checkAlignment},
	{name: "carry fold", fn: checkCarry},
	{name: "gopacket cross-check", fn: checkPackets},
}

func run(out io.Writer, seed int64, rounds int) error {
	r := rand.New(rand.NewSource(seed))
	failed := 0
	for _, c := range checks {
		if err := c.fn(r, rounds); err != nil {
			failed++
			flog.Errorf("selftest: %s: %v", c.name, err)
			fmt.Fprintf(out, "FAIL  %s: %v\n", c.name, err)
			continue
		}
		fmt.Fprintf(out, "ok    %s\n", c.name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}

func checkVector(*rand.Rand, int) error {
	vec := []byte{0x00, 0x01, 0xf2, 0x03, 0xf4, 0xf5, 0xf6, 0xf7}
	if s := checksum.Partial(vec); s != 0xddf2 || ^s != 0x220d {
		return fmt.Errorf("sum %#04x (complement %#04x), want 0xddf2 (0x220d)", s, ^s)
	}
	if s := checksum.Generic(vec); s != 0xddf2 {
		return fmt.Errorf("generic sum %#04x, want 0xddf2", s)
	}
	return nil
}

func checkAlignment(r *rand.Rand, rounds int) error {
	backing := make([]byte, 4096+16)
	for i := 0; i < rounds; i++ {
		n := r.Intn(4096)
		data := make([]byte, n)
		r.Read(data)
		want := checksum.Generic(data)
		for off := 0; off < 16; off++ {
			buf := backing[off : off+n]
			copy(buf, data)
			if got := checksum.Partial(buf); got != want {
				return fmt.Errorf("len=%d offset=%d: %#04x, want %#04x", n, off, got, want)
			}
		}
	}
	return nil
}

func checkCarry(*rand.Rand, int) error {
	buf := make([]byte, 1<<20+1)
	for i := range buf {
		buf[i] = 0xff
	}
	if s := checksum.Partial(buf[:1<<20]); s != 0xffff {
		return fmt.Errorf("even all-ones sum %#04x, want 0xffff", s)
	}
	if s := checksum.Partial(buf); s != 0xff00 {
		return fmt.Errorf("odd all-ones sum %#04x, want 0xff00", s)
	}
	return nil
}

func checkPackets(r *rand.Rand, rounds int) error {
	for i := 0; i < rounds; i++ {
		flow := randomFlow(r)
		payload := make([]byte, r.Intn(1461))
		r.Read(payload)

		p, err := packet.Build(flow, payload)
		if err != nil {
			return err
		}
		if err := p.CrossCheck(r.Intn(len(p.Transport) + 1)); err != nil {
			return fmt.Errorf("%v -> %v payload=%d: %w", flow.Src, flow.Dst, len(payload), err)
		}
	}
	return nil
}

func randomFlow(r *rand.Rand) packet.Flow {
	f := packet.Flow{
		SrcPort: uint16(1 + r.Intn(65535)),
		DstPort: uint16(1 + r.Intn(65535)),
		Proto:   layers.IPProtocolTCP,
	}
	if r.Intn(2) == 0 {
		f.Proto = layers.IPProtocolUDP
	}
	if r.Intn(2) == 0 {
		var a, b [4]byte
		r.Read(a[:])
		r.Read(b[:])
		f.Src, f.Dst = netip.AddrFrom4(a), netip.AddrFrom4(b)
	} else {
		var a, b [16]byte
		r.Read(a[:])
		r.Read(b[:])
		f.Src, f.Dst = netip.AddrFrom16(a), netip.AddrFrom16(b)
	}
	return f
}
