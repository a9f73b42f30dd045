// Package config is for run-wide settings that are unmarshalled
// from Viper (see: cmd/redigest)
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"redigest/internal/bed"
)

// Config is the root-level settings struct, a mix of an optional config
// file, REDIGEST_* environment variables and command line flags.
type Config struct {
	// FASTA input path, "-" for stdin
	Input string `mapstructure:"input"`

	// output file prefix
	Output string `mapstructure:"output"`

	// tab-separated enzyme list
	Enzymes string `mapstructure:"enzymes"`

	// number of enzyme partitions digested concurrently
	Workers int `mapstructure:"workers"`

	// enzymes per pass over the input within one partition
	Batch int `mapstructure:"batch"`

	// fifth output column: "dot" or "counter"
	Label string `mapstructure:"label"`

	// output compression: "none", "gzip" or "snappy"
	Compress string `mapstructure:"compress"`

	// lower-case bases never match
	SoftMask bool `mapstructure:"soft-mask"`

	// drop malformed enzyme lines instead of aborting
	SkipInvalid bool `mapstructure:"skip-invalid"`

	// parse the input once into memory and share it between workers
	Cache bool `mapstructure:"cache"`

	// optional JSON run summary path
	Summary string `mapstructure:"summary"`

	// "", "cpu" or "mem"
	Profile string `mapstructure:"profile"`

	Verbose bool `mapstructure:"verbose"`

	// simulated input, used when SimLen > 0 and Input is empty
	SimLen  int     `mapstructure:"sim-len"`
	SimGC   float64 `mapstructure:"sim-gc"`
	SimSeed int64   `mapstructure:"sim-seed"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", "output")
	v.SetDefault("workers", 4)
	v.SetDefault("batch", 64)
	v.SetDefault("label", "dot")
	v.SetDefault("compress", "none")
	v.SetDefault("cache", true)
	v.SetDefault("sim-gc", 0.5)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}
	c.Input = strings.TrimSpace(c.Input)
	c.Enzymes = strings.TrimSpace(c.Enzymes)
	return c, c.Validate()
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	if c.Input == "" && c.SimLen <= 0 {
		errs = append(errs, errors.New("--input is required"))
	}
	if c.Enzymes == "" {
		errs = append(errs, errors.New("--enzymes is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("--output must not be empty"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("--workers must be >= 1, got %d", c.Workers))
	}
	if c.Batch < 1 {
		errs = append(errs, fmt.Errorf("--batch must be >= 1, got %d", c.Batch))
	}
	if _, err := c.OutputOptions(); err != nil {
		errs = append(errs, err)
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		errs = append(errs, fmt.Errorf("unknown profile %q (want cpu or mem)", c.Profile))
	}
	if c.SimGC < 0 || c.SimGC > 1 {
		errs = append(errs, fmt.Errorf("--sim-gc must be within [0,1], got %g", c.SimGC))
	}
	return errors.Join(errs...)
}

// OutputOptions converts the label and compression settings.
func (c Config) OutputOptions() (bed.Options, error) {
	label, err := bed.ParseLabel(c.Label)
	if err != nil {
		return bed.Options{}, err
	}
	comp, err := bed.ParseCompression(c.Compress)
	if err != nil {
		return bed.Options{}, err
	}
	return bed.Options{Label: label, Compress: comp}, nil
}
