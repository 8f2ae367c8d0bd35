package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure reported by LoadConfig.
var ErrInvalidConfig = errors.New("invalid config")

// CurveSeed is the hand-chosen part of a channel curve: slope M, midpoint B
// and one point (X0, V0) the curve must pass through.
type CurveSeed struct {
	M  float64 `yaml:"m"`
	B  float64 `yaml:"b"`
	X0 float64 `yaml:"x0"`
	V0 float64 `yaml:"v0"`
}

// Curve solves the seed into a full curve.
func (s CurveSeed) Curve() Curve {
	return AnchorCurve(s.M, s.B, s.X0, s.V0)
}

// Config is the on-disk configuration.
type Config struct {
	// Curves holds the R, G and B seeds, in that order.
	Curves []CurveSeed `yaml:"curves"`

	// ProgressRows is the number of rows between progress lines.
	ProgressRows int `yaml:"progress_rows"`

	// Workers bounds pipeline parallelism; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the reference curve set.
func DefaultConfig() Config {
	return Config{
		Curves: []CurveSeed{
			{M: 0.02, B: 41, X0: 16, V0: 0},
			{M: 0.022, B: 71, X0: 16, V0: 8},
			{M: 0.022, B: 71, X0: 16, V0: 55},
		},
		ProgressRows: 10,
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the config describes three usable curves.
func (c Config) Validate() error {
	if len(c.Curves) != len(Palette{}) {
		return fmt.Errorf("%w: need %d curves, got %d", ErrInvalidConfig, len(Palette{}), len(c.Curves))
	}
	for i, s := range c.Curves {
		for _, v := range []float64{s.M, s.B, s.X0, s.V0} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: curve %d has a non-finite parameter", ErrInvalidConfig, i)
			}
		}
		if s.V0 < 0 || s.V0 > curveTop {
			return fmt.Errorf("%w: curve %d anchor value v0=%g is outside [0, %g]", ErrInvalidConfig, i, s.V0, curveTop)
		}
		if s.X0 < minCount {
			return fmt.Errorf("%w: curve %d anchor x0=%g is below %d", ErrInvalidConfig, i, s.X0, minCount)
		}
		if a := s.Curve().A; math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("%w: curve %d anchor does not solve", ErrInvalidConfig, i)
		}
	}
	if c.ProgressRows < 0 {
		return fmt.Errorf("%w: progress_rows must not be negative", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Palette builds the immutable curve set. The config must be valid.
func (c Config) Palette() *Palette {
	var p Palette
	for i := range p {
		p[i] = c.Curves[i].Curve()
	}
	return &p
}

// Options returns pipeline options derived from the config.
func (c Config) Options() Options {
	return Options{
		Workers:      c.Workers,
		ProgressRows: c.ProgressRows,
	}
}
