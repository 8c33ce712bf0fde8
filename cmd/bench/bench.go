package bench

import (
	"fmt"
	"inetsum/checksum"
	"inetsum/internal/conf"
	"inetsum/internal/flog"
	"io"
	"math/rand"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	confPath string
	sizes    []int
	offsets  int
	duration time.Duration
)

func init() {
	Cmd.Flags().StringVarP(&confPath, "config", "c", "config.yaml", "Path to the configuration file (defaults are used if it does not exist).")
	Cmd.Flags().IntSliceVarP(&sizes, "size", "s", nil, "Buffer sizes in bytes. Overrides bench.sizes.")
	Cmd.Flags().IntVar(&offsets, "offsets", 0, "Alignment offsets tried per size. Overrides bench.offsets.")
	Cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Time spent per case (e.g. 100ms). Overrides bench.duration.")
}

var Cmd = &cobra.Command{
	Use:   "bench",
	Short: "Measures checksum throughput across buffer sizes and alignments.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := conf.Load(confPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if len(sizes) > 0 {
			cfg.Bench.Sizes = sizes
		}
		if offsets > 0 {
			cfg.Bench.Offsets = offsets
		}
		if duration > 0 {
			cfg.Bench.Duration_ = duration.String()
		}
		if err := cfg.Bench.Check(); err != nil {
			return fmt.Errorf("invalid bench settings: %w", err)
		}

		stop := initialize(cfg)
		defer stop()
		return run(cmd.OutOrStdout(), cfg.Bench)
	},
}

func initialize(cfg *conf.Conf) (stop func()) {
	flog.SetLevel(cfg.Log.Level)
	return startPprof(cfg.Debug.Pprof)
}

type result struct {
	size    int
	offset  int
	partial float64 // MB/s
	generic float64 // MB/s
}

func run(out io.Writer, cfg conf.Bench) error {
	flog.Infof("bench: %d sizes x %d offsets, %v per case, GOARCH=%s", len(cfg.Sizes), cfg.Offsets, cfg.Duration, runtime.GOARCH)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	var results []result
	for _, n := range cfg.Sizes {
		backing := make([]byte, n+cfg.Offsets)
		r.Read(backing)
		for off := 0; off < cfg.Offsets; off++ {
			buf := backing[off : off+n]
			if p, g := checksum.Partial(buf), checksum.Generic(buf); p != g {
				return fmt.Errorf("size=%d offset=%d: Partial=%#04x Generic=%#04x", n, off, p, g)
			}
			res := result{
				size:    n,
				offset:  off,
				partial: measure(checksum.Partial, buf, cfg.Duration),
				generic: measure(checksum.Generic, buf, cfg.Duration),
			}
			flog.Debugf("bench: size=%d offset=%d partial=%.0fMB/s generic=%.0fMB/s", n, off, res.partial, res.generic)
			results = append(results, res)
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "size\toffset\tpartial MB/s\tgeneric MB/s\tspeedup\t")
	for _, res := range results {
		speedup := 0.0
		if res.generic > 0 {
			speedup = res.partial / res.generic
		}
		fmt.Fprintf(w, "%d\t%d\t%.0f\t%.0f\t%.2fx\t\n", res.size, res.offset, res.partial, res.generic, speedup)
	}
	return w.Flush()
}

// measure runs fn over buf for at least d and returns throughput in MB/s.
func measure(fn func([]byte) uint16, buf []byte, d time.Duration) float64 {
	const batch = 64
	var sink uint16
	var iters int
	start := time.Now()
	elapsed := time.Duration(0)
	for elapsed < d {
		for i := 0; i < batch; i++ {
			sink ^= fn(buf)
		}
		iters += batch
		elapsed = time.Since(start)
	}
	runtime.KeepAlive(sink)
	return float64(iters) * float64(len(buf)) / elapsed.Seconds() / 1e6
}
