package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resilience-bench/internal/bench"
	"resilience-bench/internal/logging"
	"resilience-bench/internal/transfer"
)

var (
	bandwidthFlags = benchFlags{singleRound: true}
	bandwidthClean bool
)

var bandwidthCmd = &cobra.Command{
	Use:   "bandwidth",
	Short: "Measure the realized bandwidth under the initial ceiling",
	Long: "bandwidth sends the configured object iterations times under the initial ceiling " +
		"and prints the mean realized throughput in bit/s.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bandwidthFlags.load(cmd)
		if err != nil {
			return err
		}
		log := logging.FromContext(cmd.Context())

		sim := transfer.NewSimulator(cfg.WorkDir, bench.EstimatorArtifact)
		target := transfer.Bandwidth(cfg.InitialBandwidth)
		avg, err := sim.EstimateBandwidth(cfg.Iterations, cfg.ObjectSize, target)
		if bandwidthClean {
			if _, cerr := transfer.RemoveTemps(cfg.WorkDir); cerr != nil {
				log.Warn("cleanup failed", "dir", cfg.WorkDir, "err", cerr)
			}
		}
		if err != nil {
			return err
		}
		log.Debug("bandwidth estimated", "ceiling", target.String(), "iterations", cfg.Iterations)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatBits(avg))
		return nil
	},
}

func formatBits(bits float64) string {
	return fmt.Sprintf("%.0f bit/s (%.2f Mbit/s)", bits, bits/1e6)
}

func init() {
	bandwidthFlags.register(bandwidthCmd)
	bandwidthCmd.Flags().BoolVar(&bandwidthClean, "clean", true, "Remove transfer artifacts afterwards")
}
