package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"resilience-bench/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "resilience-bench",
	Short: "Erasure coding vs replication benchmark",
	Long: "resilience-bench compares Reed-Solomon erasure coding with full replication " +
		"under a simulated, bandwidth-limited transfer and reports one record per iteration.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		logger := logging.New(level)
		slog.SetDefault(logger)
		cmd.SetContext(logging.NewContext(cmd.Context(), logger))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(bandwidthCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}
