package transfer

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeClock advances by step on every reading and by d on every sleep.
type fakeClock struct {
	t     time.Time
	step  time.Duration
	slept []time.Duration
}

func (c *fakeClock) now() time.Time {
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
}

func newFakeSimulator(t *testing.T, step time.Duration) (*Simulator, *fakeClock) {
	t.Helper()
	c := &fakeClock{t: time.Unix(0, 0), step: step}
	s := NewSimulator(t.TempDir(), "benchmark")
	s.now = c.now
	s.sleep = c.sleep
	return s, c
}

func TestIdealDuration(t *testing.T) {
	cases := []struct {
		name string
		bw   Bandwidth
		size int
		want time.Duration
	}{
		{"unlimited", Unlimited, 1 << 20, 0},
		{"one second", 8000, 1000, time.Second},
		{"quarter second", 8 << 20, 1 << 18, 250 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.bw.IdealDuration(tc.size); got != tc.want {
				t.Fatalf("IdealDuration = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSendWritesArtifact(t *testing.T) {
	s, _ := newFakeSimulator(t, 0)
	if err := s.Send(128, Unlimited); err != nil {
		t.Fatalf("Send: %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if len(data) != 128 {
		t.Fatalf("artifact size = %d, want 128", len(data))
	}
	for i, b := range data {
		if b != '0' {
			t.Fatalf("byte %d = %q, want '0'", i, b)
		}
	}
	if filepath.Base(s.Path()) != "benchmark.temp" {
		t.Fatalf("unexpected artifact name %s", s.Path())
	}
}

func TestSendSleepsForRemainder(t *testing.T) {
	s, c := newFakeSimulator(t, 100*time.Millisecond)
	if err := s.Send(1000, 8000); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(c.slept) != 1 || c.slept[0] != 900*time.Millisecond {
		t.Fatalf("slept %v, want [900ms]", c.slept)
	}
}

func TestSendNoDelayWhenWorkExceedsIdeal(t *testing.T) {
	s, c := newFakeSimulator(t, 2*time.Second)
	if err := s.Send(1000, 8000); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(c.slept) != 0 {
		t.Fatalf("unexpected sleep %v", c.slept)
	}
}

func TestSendUnlimitedNeverSleeps(t *testing.T) {
	s, c := newFakeSimulator(t, 0)
	for i := 0; i < 5; i++ {
		if err := s.Send(4096, Unlimited); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	if len(c.slept) != 0 {
		t.Fatalf("unexpected sleep %v", c.slept)
	}
}

func TestSendRealClockMeetsTarget(t *testing.T) {
	s := NewSimulator(t.TempDir(), "benchmark")
	const size = 10_000
	const bw Bandwidth = 800_000
	start := time.Now()
	if err := s.Send(size, bw); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if elapsed := time.Since(start); elapsed < bw.IdealDuration(size) {
		t.Fatalf("elapsed %v shorter than ideal %v", elapsed, bw.IdealDuration(size))
	}
}

func TestSendWriteFailure(t *testing.T) {
	s := NewSimulator(filepath.Join(t.TempDir(), "missing"), "benchmark")
	err := s.Send(16, Unlimited)
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLinkCountsTransfers(t *testing.T) {
	s, _ := newFakeSimulator(t, 0)
	l := s.Link(Unlimited)
	for i := 0; i < 3; i++ {
		if err := l.Transfer(100); err != nil {
			t.Fatalf("Transfer: %v", err)
		}
	}
	if l.Transfers() != 3 || l.BytesSent() != 300 {
		t.Fatalf("transfers=%d bytes=%d", l.Transfers(), l.BytesSent())
	}
}

func TestEstimateBandwidthFixedDelay(t *testing.T) {
	s, _ := newFakeSimulator(t, 0)
	got, err := s.EstimateBandwidth(4, 1000, 8000)
	if err != nil {
		t.Fatalf("EstimateBandwidth: %v", err)
	}
	if math.Abs(got-8000) > 1e-6 {
		t.Fatalf("estimate = %f, want 8000", got)
	}
}

func TestEstimateBandwidthIsMeanOfCalls(t *testing.T) {
	// Every clock reading costs 0.5s; without a ceiling each call spans the
	// estimator's start reading and Send's start reading.
	s, c := newFakeSimulator(t, 500*time.Millisecond)
	got, err := s.EstimateBandwidth(3, 1000, Unlimited)
	if err != nil {
		t.Fatalf("EstimateBandwidth: %v", err)
	}
	if len(c.slept) != 0 {
		t.Fatalf("unexpected sleep %v", c.slept)
	}
	want := 8000.0
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("estimate = %f, want %f", got, want)
	}
}

func TestRemoveTemps(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bw_test.temp", "benchmark.temp", "keep.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	removed, err := RemoveTemps(dir)
	if err != nil {
		t.Fatalf("RemoveTemps: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("removed %v, want 2 files", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep.csv")); err != nil {
		t.Fatalf("non-temp file removed: %v", err)
	}
}
