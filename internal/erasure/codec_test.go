package erasure

import (
	"bytes"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	cases := []struct {
		data, parity int
		lose         []int
	}{
		{4, 2, []int{0, 5}},
		{4, 2, []int{1}},
		{6, 3, []int{2, 4, 8}},
		{10, 4, []int{0, 1, 2, 3}},
	}
	for _, tc := range cases {
		c, err := New(tc.data, tc.parity)
		if err != nil {
			t.Fatalf("New(%d,%d): %v", tc.data, tc.parity, err)
		}
		shards := NewShards(tc.data, tc.parity, 64)
		for i := 0; i < tc.data; i++ {
			for j := range shards[i] {
				shards[i][j] = byte(i*31 + j)
			}
		}
		if err := c.Encode(shards); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		orig := make([][]byte, len(shards))
		for i := range shards {
			orig[i] = bytes.Clone(shards[i])
		}
		for _, idx := range tc.lose {
			shards[idx] = nil
		}
		if err := c.Reconstruct(shards); err != nil {
			t.Fatalf("Reconstruct: %v", err)
		}
		ok, err := c.Verify(shards)
		if err != nil || !ok {
			t.Fatalf("Verify = %v, %v", ok, err)
		}
		for i := range shards {
			if !bytes.Equal(shards[i], orig[i]) {
				t.Fatalf("shard %d differs after reconstruct", i)
			}
		}
	}
}

func TestReconstructTooManyMissing(t *testing.T) {
	c, err := New(4, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	shards := NewShards(4, 2, 16)
	if err := c.Encode(shards); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	shards[0], shards[1], shards[2] = nil, nil, nil
	if err := c.Reconstruct(shards); err == nil {
		t.Fatalf("expected error with three missing shards")
	}
}

func TestNewInvalidLayout(t *testing.T) {
	if _, err := New(0, 2); err == nil {
		t.Fatalf("expected error for zero data shards")
	}
}

func TestEncodeUnequalShards(t *testing.T) {
	c, err := New(2, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	shards := [][]byte{make([]byte, 8), make([]byte, 4), make([]byte, 8)}
	if err := c.Encode(shards); err == nil {
		t.Fatalf("expected error for unequal shard sizes")
	}
}
