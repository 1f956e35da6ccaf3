// Sweep driver running both strategies under an increasing bandwidth ceiling
package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"resilience-bench/internal/config"
	"resilience-bench/internal/erasure"
	"resilience-bench/internal/logging"
	"resilience-bench/internal/transfer"
)

// Artifact names used by the estimator and the strategy benchmarks.
const (
	EstimatorArtifact = "bw_test"
	BenchArtifact     = "benchmark"
)

// ErrUnsetCeiling is returned when a sweep would have to advance an unlimited ceiling.
var ErrUnsetCeiling = errors.New("cannot advance an unset bandwidth ceiling")

// ErrFlatSweep is returned when later rounds would not raise the ceiling.
var ErrFlatSweep = errors.New("bandwidth increment must be positive when rounds > 0")

// Sweeper runs rounds+1 measurement rounds, each under a higher ceiling.
type Sweeper struct {
	cfg       config.BenchConfig
	runID     string
	writer    RecordWriter
	codec     erasure.Codec
	estimator *transfer.Simulator
	sim       *transfer.Simulator
	rand      *rand.Rand
	now       func() time.Time
}

// NewSweeper builds a sweeper writing its artifacts into cfg.WorkDir. A nil r is
// seeded from cfg.Seed, or from the clock when the seed is zero.
func NewSweeper(cfg config.BenchConfig, writer RecordWriter, r *rand.Rand, now func() time.Time) (*Sweeper, error) {
	codec, err := erasure.New(cfg.DataShards, cfg.ParityShards)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	if r == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = now().UnixNano()
		}
		r = rand.New(rand.NewSource(seed))
	}
	dir := cfg.WorkDir
	if dir == "" {
		dir = "."
	}
	return &Sweeper{
		cfg:       cfg,
		runID:     uuid.NewString(),
		writer:    writer,
		codec:     codec,
		estimator: transfer.NewSimulator(dir, EstimatorArtifact),
		sim:       transfer.NewSimulator(dir, BenchArtifact),
		rand:      r,
		now:       now,
	}, nil
}

// RunID identifies every record emitted by this sweeper.
func (s *Sweeper) RunID() string { return s.runID }

// Run emits the header, then one record per iteration of every round. Cancellation is
// observed between iterations; an in-flight transfer delay always completes.
func (s *Sweeper) Run(ctx context.Context) error {
	log := logging.FromContext(ctx).With("run_id", s.runID)
	cfg := s.cfg
	if cfg.Rounds > 0 && cfg.InitialBandwidth <= 0 {
		return ErrUnsetCeiling
	}
	if cfg.Rounds > 0 && cfg.BandwidthIncrement <= 0 {
		return ErrFlatSweep
	}

	if err := writeHeader(s.writer); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	ceiling := transfer.Bandwidth(cfg.InitialBandwidth)
	for round := 0; round <= cfg.Rounds; round++ {
		avg, err := s.estimator.EstimateBandwidth(cfg.Iterations, cfg.ObjectSize, ceiling)
		if err != nil {
			return fmt.Errorf("round %d: estimate bandwidth: %w", round, err)
		}
		log.Info("round started", "round", round, "ceiling", ceiling.String(), "avg_bandwidth", avg)

		if err := s.runRound(ctx, round, ceiling, avg); err != nil {
			return err
		}
		ceiling += transfer.Bandwidth(cfg.BandwidthIncrement)
	}
	log.Info("sweep finished", "records", cfg.Records())
	return nil
}

func (s *Sweeper) runRound(ctx context.Context, round int, ceiling transfer.Bandwidth, avg float64) error {
	log := logging.FromContext(ctx)
	cfg := s.cfg
	link := s.sim.Link(ceiling)
	ec := &ErasureBench{
		Codec:        s.codec,
		Link:         link,
		DataShards:   cfg.DataShards,
		ParityShards: cfg.ParityShards,
		ShardSize:    cfg.ShardSize(),
		Rand:         s.rand,
		Distinct:     cfg.DistinctLosses,
	}
	rep := &ReplicationBench{
		Link:       link,
		Replicas:   cfg.ParityShards,
		ObjectSize: cfg.ObjectSize,
	}

	for it := 1; it <= cfg.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ecRes, err := ec.Run()
		if err != nil {
			return fmt.Errorf("round %d iteration %d: erasure coding: %w", round, it, err)
		}
		rRes, err := rep.Run()
		if err != nil {
			return fmt.Errorf("round %d iteration %d: replication: %w", round, it, err)
		}
		rec := Record{
			RunID:         s.runID,
			Round:         round,
			Ceiling:       int64(ceiling),
			Timestamp:     s.now().UTC(),
			Iteration:     it,
			ObjectSize:    cfg.ObjectSize,
			FailTolerance: cfg.ParityShards,
			AvgBandwidth:  avg,
			EC:            ecRes,
			R:             rRes,
		}
		if err := s.writer.Write(rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		log.Debug("iteration done", "round", round, "iteration", it,
			"ec_setup", ecRes.SetupTime, "ec_recovery", ecRes.RecoveryTime,
			"r_setup", rRes.SetupTime, "r_recovery", rRes.RecoveryTime)
	}
	log.Info("round finished", "round", round, "ceiling", link.Target().String(),
		"transfers", link.Transfers(), "bytes_sent", link.BytesSent())
	return nil
}
