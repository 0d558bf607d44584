// Package config loads the command line tool's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/scale"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "TRANSCODE_CONFIG"

// Output formats.
const (
	OutputPretty = "pretty"
	OutputJSON   = "json"
)

// Config is the tool configuration. Command line flags override it.
type Config struct {
	// Metadata is the default metadata or bundle path.
	Metadata string `yaml:"metadata"`
	// Output is pretty or json.
	Output string       `yaml:"output"`
	Limits LimitsConfig `yaml:"limits"`
	// SS58Prefix is the address format used to display account ids.
	SS58Prefix uint16 `yaml:"ss58_prefix"`
	Verbose    bool   `yaml:"verbose"`
}

// LimitsConfig bounds decoding and literal nesting.
type LimitsConfig struct {
	MaxDepth          int `yaml:"max_depth"`
	MaxSequenceLength int `yaml:"max_sequence_length"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Output:     OutputPretty,
		SS58Prefix: 42,
		Limits: LimitsConfig{
			MaxDepth:          scale.DefaultMaxDepth,
			MaxSequenceLength: scale.DefaultMaxSequenceLength,
		},
	}
}

// Load reads the configuration at path. An empty path falls back to
// $TRANSCODE_CONFIG; with neither set the defaults are returned. Keys the
// file omits keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "config is not valid YAML")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputPretty, OutputJSON:
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Path("output").
			Value(c.Output).
			Detail("output must be %s or %s, got %q", OutputPretty, OutputJSON, c.Output).
			Build()
	}
	if c.SS58Prefix > 16383 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Path("ss58_prefix").
			Value(c.SS58Prefix).
			Detail("ss58 prefix %d exceeds 16383", c.SS58Prefix).
			Build()
	}
	if c.Limits.MaxDepth < 0 {
		return errors.InvalidData(errors.PhaseConfig, []string{"limits", "max_depth"}, "must not be negative")
	}
	if c.Limits.MaxSequenceLength < 0 {
		return errors.InvalidData(errors.PhaseConfig, []string{"limits", "max_sequence_length"}, "must not be negative")
	}
	return nil
}

// ScaleLimits returns the limits in codec form.
func (c *Config) ScaleLimits() scale.Limits {
	return scale.Limits{
		MaxDepth:          c.Limits.MaxDepth,
		MaxSequenceLength: c.Limits.MaxSequenceLength,
	}
}
