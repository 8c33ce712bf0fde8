package conf

import (
	"fmt"
	"net"
)

// Debug configures optional debug endpoints. Keep these bound to localhost unless you
// explicitly protect them because they may expose runtime internals.
type Debug struct {
	// Pprof enables the Go pprof HTTP endpoints while bench runs (e.g. "127.0.0.1:6060").
	Pprof string `yaml:"pprof"`
}

func (d *Debug) setDefaults() {}

func (d *Debug) validate() []error {
	var errors []error
	if d.Pprof == "" {
		return errors
	}
	addr, err := net.ResolveTCPAddr("tcp", d.Pprof)
	if err != nil {
		errors = append(errors, fmt.Errorf("debug pprof address '%s' is invalid: %v", d.Pprof, err))
		return errors
	}
	if addr.Port < 1 || addr.Port > 65535 {
		errors = append(errors, fmt.Errorf("debug pprof port must be between 1-65535"))
	}
	return errors
}
