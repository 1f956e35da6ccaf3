package progress

import (
	"bytes"
	"strings"
	"testing"

	"resilience-bench/internal/bench"
)

func TestBarCountsRecords(t *testing.T) {
	var buf bytes.Buffer
	b := newBar(4, &buf)
	for round := 0; round < 2; round++ {
		for i := 1; i <= 2; i++ {
			if err := b.Write(bench.Record{Round: round, Iteration: i, Ceiling: 100000000}); err != nil {
				t.Fatalf("write: %v", err)
			}
		}
	}
	if got := b.Current(); got != 4 {
		t.Fatalf("Current = %d, want 4", got)
	}
	if b.round != 1 {
		t.Fatalf("round = %d, want 1", b.round)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !strings.Contains(buf.String(), "4 / 4") {
		t.Fatalf("final render missing counters: %q", buf.String())
	}
}

func TestCeilingCaption(t *testing.T) {
	if got := ceiling(0); got != "unlimited" {
		t.Fatalf("ceiling(0) = %s", got)
	}
	if got := ceiling(110485760); got != "110.5 Mbit/s" {
		t.Fatalf("ceiling = %s", got)
	}
}
