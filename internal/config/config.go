// YAML benchmark configuration with CUE validation
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnsetCeiling is returned when a sweep has more than one round but no initial
// bandwidth ceiling to advance.
var ErrUnsetCeiling = errors.New("rounds > 0 require an initial bandwidth ceiling")

// ErrFlatSweep is returned when later rounds would repeat the first ceiling.
var ErrFlatSweep = errors.New("rounds > 0 require a positive bandwidth_increment")

// BenchConfig is the read-only configuration of one sweep.
type BenchConfig struct {
	Iterations         int    `yaml:"iterations" json:"iterations"`
	Rounds             int    `yaml:"rounds" json:"rounds"`
	BandwidthIncrement int64  `yaml:"bandwidth_increment" json:"bandwidth_increment"`
	DataShards         int    `yaml:"data_shards" json:"data_shards"`
	ParityShards       int    `yaml:"parity_shards" json:"parity_shards"`
	ObjectSize         int    `yaml:"object_size" json:"object_size"`
	InitialBandwidth   int64  `yaml:"initial_bandwidth" json:"initial_bandwidth"` // bit/s, 0 = unlimited
	WorkDir            string `yaml:"work_dir" json:"work_dir"`
	DistinctLosses     bool   `yaml:"distinct_losses" json:"distinct_losses"`
	Seed               int64  `yaml:"seed" json:"seed"`
}

// Default returns the stock sweep: 10 MiB objects on a 4+2 layout, 100 iterations per
// round, 11 rounds starting at 100 Mbit/s and growing by 10 Mi bit/s.
func Default() BenchConfig {
	return BenchConfig{
		Iterations:         100,
		Rounds:             10,
		BandwidthIncrement: 10 * 1024 * 1024,
		DataShards:         4,
		ParityShards:       2,
		ObjectSize:         10 * 1024 * 1024,
		InitialBandwidth:   100_000_000,
		WorkDir:            ".",
	}
}

// ShardSize is the per-shard byte count. Remainder bytes of ObjectSize are dropped.
func (c BenchConfig) ShardSize() int {
	return c.ObjectSize / c.DataShards
}

// TotalShards is the data plus parity shard count.
func (c BenchConfig) TotalShards() int {
	return c.DataShards + c.ParityShards
}

// Records is the number of data lines a sweep emits.
func (c BenchConfig) Records() int {
	return (c.Rounds + 1) * c.Iterations
}

// Validate checks the invariants the benchmark engine relies on.
func (c BenchConfig) Validate() error {
	switch {
	case c.Iterations <= 0:
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	case c.Rounds < 0:
		return fmt.Errorf("rounds must not be negative, got %d", c.Rounds)
	case c.DataShards <= 0:
		return fmt.Errorf("data_shards must be positive, got %d", c.DataShards)
	case c.ParityShards <= 0:
		return fmt.Errorf("parity_shards must be positive, got %d", c.ParityShards)
	case c.TotalShards() > 256:
		return fmt.Errorf("data_shards + parity_shards must not exceed 256, got %d", c.TotalShards())
	case c.ObjectSize < c.DataShards:
		return fmt.Errorf("object_size %d is smaller than data_shards %d", c.ObjectSize, c.DataShards)
	case c.InitialBandwidth < 0:
		return fmt.Errorf("initial_bandwidth must not be negative, got %d", c.InitialBandwidth)
	case c.BandwidthIncrement < 0:
		return fmt.Errorf("bandwidth_increment must not be negative, got %d", c.BandwidthIncrement)
	case c.Rounds > 0 && c.InitialBandwidth == 0:
		return ErrUnsetCeiling
	case c.Rounds > 0 && c.BandwidthIncrement == 0:
		return ErrFlatSweep
	}
	return nil
}

// Normalize replaces empty fields that mean "use the default".
func (c *BenchConfig) Normalize() {
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
}

// Load reads a YAML config on top of Default. When cueSchemaPath is non-empty the file is
// validated against the CUE schema first.
func Load(configPath, cueSchemaPath string) (*BenchConfig, error) {
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	slog.Debug("loaded configuration", "path", configPath, "config", fmt.Sprintf("%+v", cfg))

	return &cfg, nil
}
