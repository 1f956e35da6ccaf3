// Package erasure exposes the Reed-Solomon capability used by the erasure coding benchmark.
package erasure

import (
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// Codec encodes parity shards and rebuilds missing ones.
//
// Encode fills the parity entries of shards in place from the data entries.
// Reconstruct fills nil entries in place when enough shards survive.
// Verify reports whether the parity entries are consistent with the data entries.
type Codec interface {
	Encode(shards [][]byte) error
	Reconstruct(shards [][]byte) error
	Verify(shards [][]byte) (bool, error)
}

// New returns a Reed-Solomon codec over GF(2^8) for the given shard layout.
func New(dataShards, parityShards int) (Codec, error) {
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("reed-solomon %d+%d: %w", dataShards, parityShards, err)
	}
	return enc, nil
}

// NewShards allocates dataShards+parityShards zero-filled shards of shardSize bytes.
func NewShards(dataShards, parityShards, shardSize int) [][]byte {
	shards := make([][]byte, dataShards+parityShards)
	for i := range shards {
		shards[i] = make([]byte, shardSize)
	}
	return shards
}
