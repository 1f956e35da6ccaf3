package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBandwidthUnlimitedIgnoresRounds(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	out, err := runRoot(t, "bandwidth", "--bandwidth", "0", "--iterations", "2", "--object-size", "64", "--work-dir", dir)
	if err != nil {
		t.Fatalf("bandwidth --bandwidth 0: %v\n%s", err, out)
	}
	if !strings.Contains(out, "bit/s") {
		t.Fatalf("unexpected output: %q", out)
	}
	temps, _ := filepath.Glob(filepath.Join(dir, "*.temp"))
	if len(temps) != 0 {
		t.Fatalf("artifacts left behind: %v", temps)
	}
}

func TestSweepRejectsFlatCeilingFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	_, err := runRoot(t, "sweep", "--rounds", "2", "--increment", "0", "--iterations", "1",
		"--object-size", "64", "--work-dir", dir, "--progress=false")
	if err == nil || !strings.Contains(err.Error(), "bandwidth_increment") {
		t.Fatalf("sweep with zero increment: err = %v", err)
	}
}
