package humblegen

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config controls compilation of a set of schema files. It can be loaded
// from a humble.yaml file, with individual fields overridden by CLI flags.
type Config struct {
	// Package is the Go package name for generated files.
	Package string `yaml:"package" validate:"required,alphanum"`

	// RuntimeImport overrides the import path of the runtime library
	// referenced by generated service code.
	RuntimeImport string `yaml:"runtime_import"`

	// DisallowUnknownFields makes generated struct decoders reject
	// unknown JSON properties.
	DisallowUnknownFields bool `yaml:"disallow_unknown_fields"`

	// NoFormat skips the source formatter on generated output.
	NoFormat bool `yaml:"no_format"`
}

func (c *Config) format() bool {
	return !c.NoFormat
}

// Validate checks the configuration before compilation starts.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
