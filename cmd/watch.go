package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/churnprep/churnprep/internal/config"
	"github.com/churnprep/churnprep/internal/output"
	"github.com/churnprep/churnprep/internal/pipeline"
	"github.com/churnprep/churnprep/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run preprocessing whenever the raw file changes",
	Long: `Watch the raw churn CSV and re-run the full preprocessing pipeline
each time the file is rewritten, keeping the persisted artifacts in sync
with the latest export.

Examples:
  churnprep watch
  churnprep watch --debounce 2s
  churnprep watch --raw-data data/churn.csv`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period after a change before re-running")
	watchCmd.Flags().String("raw-data", "", "path to the raw churn CSV")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if raw, _ := cmd.Flags().GetString("raw-data"); raw != "" {
		cfg.RawDataPath = raw
	}

	if _, err := os.Stat(cfg.RawDataPath); err != nil {
		return fmt.Errorf("file does not exist: %s", cfg.RawDataPath)
	}

	out := cmd.OutOrStdout()
	errOut := output.New(cmd.ErrOrStderr(), output.FormatText)
	fmt.Fprintf(out, "Watching %s (debounce %s)\n", cfg.RawDataPath, debounce)

	reprocess := func() error {
		started := time.Now()
		res, err := pipeline.Run(cfg)
		if err != nil {
			return err
		}
		if err := pipeline.Persist(cfg, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "Reprocessed %d rows -> %d features in %s\n",
			res.InputRows, len(res.Features.Columns), time.Since(started).Round(time.Millisecond))
		return nil
	}

	watcher := watch.New(watch.Options{
		FilePath: cfg.RawDataPath,
		Debounce: debounce,
		OnChange: reprocess,
		OnError: func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n",
				errOut.Colorize("warn", "Reprocess failed:", output.ColorAuto), err)
		},
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- watcher.Run(ctx)
	}()

	select {
	case <-sigChan:
		cancel()
		<-errChan
		return nil
	case err := <-errChan:
		return err
	}
}
