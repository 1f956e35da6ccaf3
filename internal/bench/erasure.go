package bench

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"resilience-bench/internal/erasure"
)

// ErrVerifyFailed signals that reconstructed shards do not match the encoded originals.
// It indicates a defect in the codec, never a runtime condition to retry.
var ErrVerifyFailed = errors.New("reconstructed shards failed verification")

// Transport moves one payload of size bytes over a simulated channel.
type Transport interface {
	Transfer(size int) error
}

// ErasureBench measures one setup/loss/recovery cycle of Reed-Solomon coding.
type ErasureBench struct {
	Codec        erasure.Codec
	Link         Transport
	DataShards   int
	ParityShards int
	ShardSize    int
	Rand         *rand.Rand
	// Distinct samples ParityShards different shards to lose. When false, draws are
	// made with replacement so up to ParityShards shards are lost.
	Distinct bool
}

// Run executes the cycle. The first shard is local; setup sends the other
// total-1 shards, recovery sends ParityShards rebuilt shards.
func (b *ErasureBench) Run() (ErasureResult, error) {
	total := b.DataShards + b.ParityShards
	res := ErasureResult{
		Shards:                 total,
		MemoryUsage:            total * b.ShardSize,
		BandwidthSetupUsage:    (total - 1) * b.ShardSize,
		BandwidthRecoveryUsage: b.ParityShards * b.ShardSize,
	}

	master := erasure.NewShards(b.DataShards, b.ParityShards, b.ShardSize)

	start := time.Now()
	if err := b.Codec.Encode(master); err != nil {
		return res, fmt.Errorf("encode: %w", err)
	}
	shards := make([][]byte, total)
	for i, s := range master {
		shards[i] = bytes.Clone(s)
	}
	for i := 0; i < total-1; i++ {
		if err := b.Link.Transfer(b.ShardSize); err != nil {
			return res, fmt.Errorf("distribute shard: %w", err)
		}
	}
	res.SetupTime = time.Since(start)

	res.Erased = b.lose(shards)

	start = time.Now()
	if err := b.Codec.Reconstruct(shards); err != nil {
		return res, fmt.Errorf("reconstruct: %w", err)
	}
	for i := 0; i < b.ParityShards; i++ {
		if err := b.Link.Transfer(b.ShardSize); err != nil {
			return res, fmt.Errorf("redistribute shard: %w", err)
		}
	}
	res.RecoveryTime = time.Since(start)

	ok, err := b.Codec.Verify(shards)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}
	if !ok {
		return res, ErrVerifyFailed
	}
	for i := range master {
		if !bytes.Equal(master[i], shards[i]) {
			return res, fmt.Errorf("%w: shard %d differs", ErrVerifyFailed, i)
		}
	}
	return res, nil
}

// lose nils ParityShards randomly chosen shards and returns how many distinct
// shards were erased.
func (b *ErasureBench) lose(shards [][]byte) int {
	if b.Distinct {
		for _, idx := range b.Rand.Perm(len(shards))[:b.ParityShards] {
			shards[idx] = nil
		}
		return b.ParityShards
	}
	for i := 0; i < b.ParityShards; i++ {
		shards[b.Rand.Intn(len(shards))] = nil
	}
	erased := 0
	for _, s := range shards {
		if s == nil {
			erased++
		}
	}
	return erased
}
