package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"resilience-bench/internal/bench"
	"resilience-bench/internal/logging"
)

var (
	replayInput   string
	replaySpeed   float64
	replayFormat  string
	replayParquet string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a JSONL record log",
	Long: "replay feeds records from a sweep log back through the writers, e.g. to convert " +
		"it to CSV or Parquet or to push it into GreptimeDB.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		out, err := newWriters(nil, sinkOptions{format: replayFormat, parquet: replayParquet})
		if err != nil {
			return err
		}
		n, err := bench.ReplayLogFile(replayInput, out, replaySpeed)
		err = errors.Join(err, out.Close())
		logging.FromContext(cmd.Context()).Info("replay finished", "records", n)
		return err
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to JSONL record log")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Playback speed multiplier (0 = no pacing)")
	replayCmd.Flags().StringVar(&replayFormat, "format", "csv", "STDOUT format: csv, json or color")
	replayCmd.Flags().StringVar(&replayParquet, "parquet", "", "Also write records to this Parquet file")
	replayCmd.MarkFlagRequired("input")
}
