package main

import (
	"fmt"
	"os"

	"resilience-bench/internal/bench"
	"resilience-bench/internal/config"
	"resilience-bench/internal/progress"
)

// sinkOptions selects the record sinks of a run.
type sinkOptions struct {
	format   string // csv, json, color or tui
	logFile  string // JSONL log for replay
	parquet  string
	progress bool
	admin    bool // status and metrics for the admin server
}

// sinks is the fan-out writer plus the parts the caller needs afterwards.
type sinks struct {
	*bench.MultiWriter
	status  *bench.StatusWriter
	metrics *bench.MetricsWriter
	files   []string        // report files eligible for upload
	quit    <-chan struct{} // closed when an interactive writer exits early
}

// newWriters sets up record writers based on flags and env vars. cfg may be nil when
// no sweep configuration is known, as in replay.
func newWriters(cfg *config.BenchConfig, opts sinkOptions) (_ *sinks, err error) {
	base, err := baseWriter(cfg, opts.format)
	if err != nil {
		return nil, err
	}
	s := &sinks{MultiWriter: bench.NewMultiWriter(base)}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()
	if tw, ok := base.(*bench.TUIWriter); ok {
		s.quit = tw.Done()
	}

	if opts.logFile != "" {
		fw, err := bench.NewFileWriter(opts.logFile)
		if err != nil {
			return nil, err
		}
		s.Add(fw)
		s.files = append(s.files, fw.Path())
	}
	if opts.parquet != "" {
		pw, err := bench.NewParquetWriter(opts.parquet, 100)
		if err != nil {
			return nil, err
		}
		s.Add(pw)
		s.files = append(s.files, pw.Path())
	}

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		gw, err := bench.NewGreptimeDBWriter(endpoint, os.Getenv("GREPTIMEDB_DATABASE"), os.Getenv("GREPTIMEDB_TABLE"))
		if err != nil {
			return nil, fmt.Errorf("init GreptimeDB writer: %w", err)
		}
		s.Add(gw)
	}

	if opts.admin {
		expected := 0
		if cfg != nil {
			expected = cfg.Records()
		}
		s.status = bench.NewStatusWriter(expected)
		s.metrics = bench.NewMetricsWriter()
		s.Add(s.status)
		s.Add(s.metrics)
	}

	if opts.progress && opts.format != "tui" && cfg != nil {
		s.Add(progress.NewBar(cfg.Records()))
	}
	return s, nil
}

// baseWriter chooses the STDOUT writer for format.
func baseWriter(cfg *config.BenchConfig, format string) (bench.RecordWriter, error) {
	switch format {
	case "", "csv":
		return bench.NewCSVWriter(), nil
	case "json":
		return bench.NewJSONStdoutWriter(), nil
	case "color":
		return bench.NewColorWriter(cfg), nil
	case "tui":
		if cfg == nil {
			return nil, fmt.Errorf("format tui needs a sweep configuration")
		}
		return bench.NewTUIWriter(*cfg), nil
	default:
		return nil, fmt.Errorf("unknown format %q (csv, json, color, tui)", format)
	}
}
