package conf

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

type Conf struct {
	Log   Log   `yaml:"log"`
	Sum   Sum   `yaml:"sum"`
	Bench Bench `yaml:"bench"`
	Debug Debug `yaml:"debug"`
}

// Default returns a validated configuration with every field defaulted.
func Default() *Conf {
	c := &Conf{}
	c.setDefaults()
	if err := c.validate(); err != nil {
		panic(fmt.Sprintf("conf: defaults do not validate: %v", err))
	}
	return c
}

// LoadFromFile reads, defaults and validates the YAML file at path. Unknown
// keys are rejected.
func LoadFromFile(path string) (*Conf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Load is LoadFromFile, except that a missing file yields Default.
func Load(path string) (*Conf, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return LoadFromFile(path)
}

func Parse(data []byte) (*Conf, error) {
	c := &Conf{}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	c.setDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Conf) setDefaults() {
	c.Log.setDefaults()
	c.Sum.setDefaults()
	c.Bench.setDefaults()
	c.Debug.setDefaults()
}

func (c *Conf) validate() error {
	var errs []error
	errs = append(errs, c.Log.validate()...)
	errs = append(errs, c.Sum.validate()...)
	errs = append(errs, c.Bench.validate()...)
	errs = append(errs, c.Debug.validate()...)
	return errors.Join(errs...)
}
