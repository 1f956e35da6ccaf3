package bench

import (
	"bytes"
	"fmt"
	"time"
)

// ReplicationBench measures one setup/loss/recovery cycle of full replication.
// The replica list starts with the primary copy only.
type ReplicationBench struct {
	Link       Transport
	Replicas   int // copies beyond the primary, equal to the fail tolerance
	ObjectSize int
}

// Run executes the cycle. Loss always drops the newest Replicas copies.
func (b *ReplicationBench) Run() (ReplicationResult, error) {
	res := ReplicationResult{
		Nodes:                  b.Replicas + 1,
		MemoryUsage:            (b.Replicas + 1) * b.ObjectSize,
		BandwidthSetupUsage:    b.Replicas * b.ObjectSize,
		BandwidthRecoveryUsage: b.Replicas * b.ObjectSize,
	}

	replicas := [][]byte{make([]byte, b.ObjectSize)}

	start := time.Now()
	replicas, err := b.replicate(replicas)
	if err != nil {
		return res, fmt.Errorf("setup: %w", err)
	}
	res.SetupTime = time.Since(start)

	replicas = replicas[:len(replicas)-b.Replicas]
	res.Survivors = len(replicas)

	start = time.Now()
	replicas, err = b.replicate(replicas)
	if err != nil {
		return res, fmt.Errorf("recovery: %w", err)
	}
	res.RecoveryTime = time.Since(start)
	res.Recovered = len(replicas)

	return res, nil
}

func (b *ReplicationBench) replicate(replicas [][]byte) ([][]byte, error) {
	for i := 0; i < b.Replicas; i++ {
		replicas = append(replicas, bytes.Clone(replicas[0]))
		if err := b.Link.Transfer(b.ObjectSize); err != nil {
			return replicas, err
		}
	}
	return replicas, nil
}
