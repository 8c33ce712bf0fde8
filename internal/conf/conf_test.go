package conf

import (
	"inetsum/internal/flog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Log.Level != flog.Info {
		t.Fatalf("log level=%v, want %v", c.Log.Level, flog.Info)
	}
	if c.Sum.Chunk != 64*1024 || c.Sum.Format != "hex" {
		t.Fatalf("sum defaults=%+v", c.Sum)
	}
	if len(c.Bench.Sizes) == 0 || c.Bench.Offsets != 8 || c.Bench.Duration != 200*time.Millisecond {
		t.Fatalf("bench defaults=%+v", c.Bench)
	}
	if c.Debug.Pprof != "" {
		t.Fatalf("pprof should default to disabled, got %q", c.Debug.Pprof)
	}
}

func TestParse(t *testing.T) {
	in := []byte(`log:
  level: "debug"
sum:
  chunk: 4096
  format: both
bench:
  sizes: [20, 1500]
  offsets: 4
  duration: 50ms
debug:
  pprof: "127.0.0.1:6060"
`)
	c, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() err=%v", err)
	}
	if c.Log.Level != flog.Debug {
		t.Fatalf("log level=%v, want debug", c.Log.Level)
	}
	if c.Sum.Chunk != 4096 || c.Sum.Format != "both" {
		t.Fatalf("sum=%+v", c.Sum)
	}
	if len(c.Bench.Sizes) != 2 || c.Bench.Sizes[1] != 1500 || c.Bench.Offsets != 4 || c.Bench.Duration != 50*time.Millisecond {
		t.Fatalf("bench=%+v", c.Bench)
	}
	if c.Debug.Pprof != "127.0.0.1:6060" {
		t.Fatalf("pprof=%q", c.Debug.Pprof)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "odd chunk", in: "sum:\n  chunk: 4095\n", want: "even"},
		{name: "chunk too small", in: "sum:\n  chunk: 1\n", want: "between"},
		{name: "bad format", in: "sum:\n  format: octal\n", want: "format"},
		{name: "bad level", in: "log:\n  level: loud\n", want: "log level"},
		{name: "bad duration", in: "bench:\n  duration: soon\n", want: "duration"},
		{name: "zero size", in: "bench:\n  sizes: [0]\n", want: "bench size"},
		{name: "bad offsets", in: "bench:\n  offsets: 100\n", want: "offsets"},
		{name: "bad pprof", in: "debug:\n  pprof: \"nohost\"\n", want: "pprof"},
		{name: "unknown key", in: "sum:\n  chunks: 4096\n", want: "chunks"},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.in))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Load(missing) err=%v", err)
	}
	if c.Sum.Chunk != Default().Sum.Chunk {
		t.Fatalf("Load(missing) did not return defaults: %+v", c.Sum)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("sum:\n  format: dec\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("Load(%s) err=%v", path, err)
	}
	if c.Sum.Format != "dec" {
		t.Fatalf("format=%q, want dec", c.Sum.Format)
	}

	if _, err := LoadFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("LoadFromFile(missing) expected error")
	}
}

func TestBenchCheck(t *testing.T) {
	b := Default().Bench
	b.Duration_ = "5ms"
	if err := b.Check(); err != nil {
		t.Fatalf("Check() err=%v", err)
	}
	if b.Duration != 5*time.Millisecond {
		t.Fatalf("duration=%v, want 5ms", b.Duration)
	}

	b.Sizes = []int{64, maxChunk + 1}
	if err := b.Check(); err == nil {
		t.Fatalf("size above %d accepted", maxChunk)
	}
	b.Sizes = []int{64}
	b.Offsets = 65
	if err := b.Check(); err == nil {
		t.Fatalf("offsets=65 accepted")
	}
}
