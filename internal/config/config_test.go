package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func TestLoadConfig_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bench.yaml", `
iterations: 3
rounds: 2
bandwidth_increment: 1000
data_shards: 4
parity_shards: 2
object_size: 1048576
initial_bandwidth: 8000000
`)
	cfg, err := Load(path, "../../schemas/bench.cue")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Iterations != 3 || cfg.Rounds != 2 || cfg.ShardSize() != 262144 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.WorkDir != "." {
		t.Errorf("work_dir default not applied: %q", cfg.WorkDir)
	}
	if cfg.Records() != 9 {
		t.Errorf("Records() = %d, want 9", cfg.Records())
	}
}

func TestLoadConfig_StockFile(t *testing.T) {
	cfg, err := Load("../../config/bench.yaml", "../../schemas/bench.cue")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if *cfg != Default() {
		t.Errorf("stock file differs from Default(): %+v", cfg)
	}
}

func TestLoadConfig_SchemaRejects(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bench.yaml", "iterations: -1\n")
	if _, err := Load(path, "../../schemas/bench.cue"); err == nil {
		t.Fatalf("expected schema validation error")
	}
}

func TestLoadConfig_WithoutSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bench.yaml", "rounds: 0\ninitial_bandwidth: 0\n")
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.InitialBandwidth != 0 || cfg.Rounds != 0 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*BenchConfig)
		wantErr error
		ok      bool
	}{
		{name: "default", mutate: func(*BenchConfig) {}, ok: true},
		{name: "zero iterations", mutate: func(c *BenchConfig) { c.Iterations = 0 }},
		{name: "zero parity", mutate: func(c *BenchConfig) { c.ParityShards = 0 }},
		{name: "too many shards", mutate: func(c *BenchConfig) { c.DataShards = 250; c.ParityShards = 10 }},
		{name: "object smaller than shards", mutate: func(c *BenchConfig) { c.ObjectSize = 3 }},
		{name: "unset ceiling", mutate: func(c *BenchConfig) { c.InitialBandwidth = 0 }, wantErr: ErrUnsetCeiling},
		{name: "unlimited single round", mutate: func(c *BenchConfig) { c.InitialBandwidth = 0; c.Rounds = 0 }, ok: true},
		{name: "flat sweep", mutate: func(c *BenchConfig) { c.BandwidthIncrement = 0 }, wantErr: ErrFlatSweep},
		{name: "single round without increment", mutate: func(c *BenchConfig) { c.BandwidthIncrement = 0; c.Rounds = 0 }, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			err := c.Validate()
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfig_FlatSweep(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bench.yaml", "rounds: 2\nbandwidth_increment: 0\n")
	if _, err := Load(path, "../../schemas/bench.cue"); err == nil {
		t.Fatalf("expected schema to reject a zero increment with rounds > 0")
	}
	if _, err := Load(path, ""); !errors.Is(err, ErrFlatSweep) {
		t.Fatalf("Load() error = %v, want %v", err, ErrFlatSweep)
	}

	path = writeFile(t, dir, "default_rounds.yaml", "bandwidth_increment: 0\n")
	if _, err := Load(path, "../../schemas/bench.cue"); err == nil {
		t.Fatalf("expected schema to reject a zero increment with default rounds")
	}

	path = writeFile(t, dir, "single.yaml", "rounds: 0\nbandwidth_increment: 0\n")
	if _, err := Load(path, "../../schemas/bench.cue"); err != nil {
		t.Fatalf("single round without increment should load: %v", err)
	}
}

func TestLoadConfig_EmptyWorkDir(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bench.yaml", "work_dir: \"\"\n")
	cfg, err := Load(path, "../../schemas/bench.cue")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.WorkDir != "." {
		t.Fatalf("work_dir = %q, want .", cfg.WorkDir)
	}
}
