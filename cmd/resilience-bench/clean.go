package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resilience-bench/internal/transfer"
)

var cleanDir string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove transfer artifacts",
	Long:  "clean deletes every *" + transfer.TempExt + " artifact left in the work directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := transfer.RemoveTemps(cleanDir)
		for _, p := range removed {
			fmt.Fprintln(cmd.OutOrStdout(), "removed", p)
		}
		return err
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanDir, "work-dir", ".", "Directory holding transfer artifacts")
}
