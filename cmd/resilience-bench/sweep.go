package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"resilience-bench/internal/admin"
	"resilience-bench/internal/bench"
	"resilience-bench/internal/logging"
	"resilience-bench/internal/objstore"
	"resilience-bench/internal/transfer"
)

var (
	sweepFlags     benchFlags
	sweepFormat    string
	sweepLogFile   string
	sweepParquet   string
	sweepAdminAddr string
	sweepUpload    string
	sweepProgress  bool
	sweepClean     bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the erasure coding vs replication sweep",
	Long: "sweep runs rounds+1 rounds of iterations, raising the bandwidth ceiling after each round, " +
		"and prints one CSV record per iteration to STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sweepFlags.load(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		log := logging.FromContext(ctx)

		out, err := newWriters(cfg, sinkOptions{
			format:   sweepFormat,
			logFile:  sweepLogFile,
			parquet:  sweepParquet,
			progress: sweepProgress && term.IsTerminal(int(os.Stderr.Fd())),
			admin:    sweepAdminAddr != "",
		})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go stopOnQuit(ctx, out.quit, cancel)

		if sweepAdminAddr != "" {
			srv := admin.NewServer(out.status, out.metrics.Registry())
			go func() {
				if err := srv.Start(ctx, sweepAdminAddr); err != nil {
					log.Error("admin server failed", "err", err)
				}
			}()
		}

		sweeper, err := bench.NewSweeper(*cfg, out, nil, nil)
		if err != nil {
			out.Close()
			return err
		}
		log.Info("sweep starting", "run_id", sweeper.RunID(), "records", cfg.Records())

		runErr := sweeper.Run(ctx)
		closeErr := out.Close()

		if sweepClean {
			removed, err := transfer.RemoveTemps(cfg.WorkDir)
			if err != nil {
				log.Warn("cleanup failed", "dir", cfg.WorkDir, "err", err)
			} else {
				log.Debug("removed transfer artifacts", "count", len(removed))
			}
		}

		if runErr != nil {
			return runErr
		}
		if closeErr != nil {
			return closeErr
		}

		if sweepUpload != "" && len(out.files) > 0 {
			u, err := objstore.NewFromEnv(ctx, sweepUpload)
			if err != nil {
				return err
			}
			if _, err := u.UploadFiles(ctx, out.files...); err != nil {
				return err
			}
		}
		return nil
	},
}

// stopOnQuit cancels the sweep when quit closes first, e.g. when the user leaves the TUI.
func stopOnQuit(ctx context.Context, quit <-chan struct{}, cancel context.CancelFunc) {
	if quit == nil {
		return
	}
	select {
	case <-quit:
		logging.FromContext(ctx).Info("terminal UI closed, stopping sweep")
		cancel()
	case <-ctx.Done():
	}
}

func init() {
	sweepFlags.register(sweepCmd)
	f := sweepCmd.Flags()
	f.StringVar(&sweepFormat, "format", "csv", "STDOUT format: csv, json, color or tui")
	f.StringVar(&sweepLogFile, "log-file", "", "Path to export records as JSONL (replayable)")
	f.StringVar(&sweepParquet, "parquet", "", "Path to export records as Parquet")
	f.StringVar(&sweepAdminAddr, "admin-addr", "", "Serve /status, /metrics and /healthz on this address (e.g. :8080)")
	f.StringVar(&sweepUpload, "upload", "", "Upload the JSONL and Parquet files to s3://bucket/prefix or r2://bucket/prefix")
	f.BoolVar(&sweepProgress, "progress", true, "Show a progress bar on STDERR when it is a terminal")
	f.BoolVar(&sweepClean, "clean", true, "Remove transfer artifacts when the sweep ends")
}
