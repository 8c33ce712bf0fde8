package conf

import (
	"errors"
	"fmt"
	"time"
)

type Bench struct {
	Sizes     []int         `yaml:"sizes"`
	Offsets   int           `yaml:"offsets"`  // alignment offsets tried per size
	Duration_ string        `yaml:"duration"` // per case, e.g. "200ms"
	Duration  time.Duration `yaml:"-"`
}

func (b *Bench) setDefaults() {
	if len(b.Sizes) == 0 {
		// IPv4 header, small frame, minimum IPv4 MTU, Ethernet MTU, jumbo, 64KiB.
		b.Sizes = []int{20, 64, 576, 1500, 9000, 64 * 1024}
	}
	if b.Offsets == 0 {
		b.Offsets = 8
	}
	if b.Duration_ == "" {
		b.Duration_ = "200ms"
	}
}

// Check re-validates b after command-line overrides of Sizes, Offsets or
// Duration_.
func (b *Bench) Check() error {
	return errors.Join(b.validate()...)
}

func (b *Bench) validate() []error {
	var errs []error

	for _, n := range b.Sizes {
		if n < 1 || n > maxChunk {
			errs = append(errs, fmt.Errorf("bench size %d must be between 1-%d bytes", n, maxChunk))
		}
	}
	if b.Offsets < 1 || b.Offsets > 64 {
		errs = append(errs, fmt.Errorf("bench offsets must be between 1-64"))
	}

	d, err := time.ParseDuration(b.Duration_)
	if err != nil {
		errs = append(errs, fmt.Errorf("bench duration '%s' is invalid: %v", b.Duration_, err))
	} else if d < time.Millisecond || d > time.Minute {
		errs = append(errs, fmt.Errorf("bench duration must be between 1ms-1m"))
	}
	b.Duration = d

	return errs
}
