package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"resilience-bench/internal/config"
)

const (
	defaultConfigPath = "config/bench.yaml"
	defaultSchemaPath = "schemas/bench.cue"
)

// benchFlags are the configuration overrides shared by sweep and bandwidth.
type benchFlags struct {
	configPath string
	schemaPath string

	iterations     int
	rounds         int
	increment      int64
	dataShards     int
	parityShards   int
	objectSize     int
	bandwidth      int64
	workDir        string
	distinctLosses bool
	seed           int64

	// singleRound measures under the initial ceiling only, so rounds and the
	// sweep-only ceiling rules do not apply.
	singleRound bool
}

func (f *benchFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", defaultConfigPath, "Path to benchmark configuration YAML")
	fs.StringVar(&f.schemaPath, "schema", defaultSchemaPath, "Path to CUE schema file (empty to skip)")
	fs.IntVar(&f.iterations, "iterations", d.Iterations, "Iterations per round")
	fs.IntVar(&f.rounds, "rounds", d.Rounds, "Additional rounds after the first")
	fs.Int64Var(&f.increment, "increment", d.BandwidthIncrement, "Ceiling increment per round in bit/s")
	fs.IntVar(&f.dataShards, "data-shards", d.DataShards, "Erasure coding data shards")
	fs.IntVar(&f.parityShards, "parity-shards", d.ParityShards, "Erasure coding parity shards (fail tolerance)")
	fs.IntVar(&f.objectSize, "object-size", d.ObjectSize, "Object size in bytes")
	fs.Int64Var(&f.bandwidth, "bandwidth", d.InitialBandwidth, "Initial bandwidth ceiling in bit/s (0 = unlimited)")
	fs.StringVar(&f.workDir, "work-dir", d.WorkDir, "Directory for transfer artifacts")
	fs.BoolVar(&f.distinctLosses, "distinct-losses", d.DistinctLosses, "Lose exactly parity-shards distinct shards per iteration")
	fs.Int64Var(&f.seed, "seed", d.Seed, "Loss selection seed (0 = time based)")
}

// load reads the config file and applies every flag that was set explicitly.
// The stock config path is optional; built-in defaults apply when it is absent.
func (f *benchFlags) load(cmd *cobra.Command) (*config.BenchConfig, error) {
	fs := cmd.Flags()
	var cfg *config.BenchConfig
	if _, err := os.Stat(f.configPath); errors.Is(err, os.ErrNotExist) && !fs.Changed("config") {
		d := config.Default()
		cfg = &d
	} else {
		schema := f.schemaPath
		if _, err := os.Stat(schema); errors.Is(err, os.ErrNotExist) && !fs.Changed("schema") {
			schema = ""
		}
		loaded, err := config.Load(f.configPath, schema)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fs.Changed("iterations") {
		cfg.Iterations = f.iterations
	}
	if fs.Changed("rounds") {
		cfg.Rounds = f.rounds
	}
	if fs.Changed("increment") {
		cfg.BandwidthIncrement = f.increment
	}
	if fs.Changed("data-shards") {
		cfg.DataShards = f.dataShards
	}
	if fs.Changed("parity-shards") {
		cfg.ParityShards = f.parityShards
	}
	if fs.Changed("object-size") {
		cfg.ObjectSize = f.objectSize
	}
	if fs.Changed("bandwidth") {
		cfg.InitialBandwidth = f.bandwidth
	}
	if fs.Changed("work-dir") {
		cfg.WorkDir = f.workDir
	}
	if fs.Changed("distinct-losses") {
		cfg.DistinctLosses = f.distinctLosses
	}
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
	if f.singleRound {
		cfg.Rounds = 0
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
