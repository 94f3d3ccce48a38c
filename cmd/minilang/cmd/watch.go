package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/woozymasta/minilang/internal/check"
	"github.com/woozymasta/minilang/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch files...",
	Short: "Re-check files whenever they change",
	Long: `Checks the files once, then re-checks each file after it is written
until interrupted.

Examples:
  minilang watch a.ml b.ml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "parallel files for the initial check (default: config check.jobs)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := checkOptions()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	results, err := check.Files(ctx, args, opt)
	if err != nil {
		return err
	}
	printResults(out, results)

	w, err := watch.New(args, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching", slog.Int("files", len(args)))
	err = w.Run(ctx, func(path string) {
		printResults(out, []check.Result{check.File(ctx, path, opt.Parse, opt.Linter)})
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
