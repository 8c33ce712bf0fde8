package conf

import (
	"fmt"
	"slices"
)

// Sum configures the sum command.
type Sum struct {
	// Chunk is the read size for file and stdin inputs. It must be even so
	// every chunk after the first starts at an even offset.
	Chunk  int    `yaml:"chunk"`
	Format string `yaml:"format"`
}

const maxChunk = 64 * 1024 * 1024

func (s *Sum) setDefaults() {
	if s.Chunk == 0 {
		s.Chunk = 64 * 1024
	}
	if s.Format == "" {
		s.Format = "hex"
	}
}

func (s *Sum) validate() []error {
	var errors []error

	if s.Chunk < 2 || s.Chunk > maxChunk {
		errors = append(errors, fmt.Errorf("sum chunk must be between 2-%d bytes", maxChunk))
	}
	if s.Chunk&1 != 0 {
		errors = append(errors, fmt.Errorf("sum chunk must be even, got %d", s.Chunk))
	}

	validFormats := []string{"hex", "dec", "both"}
	if !slices.Contains(validFormats, s.Format) {
		errors = append(errors, fmt.Errorf("sum format must be one of: %v", validFormats))
	}

	return errors
}
