package cmd

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/woozymasta/lintkit/lint"

	"github.com/woozymasta/minilang/internal/check"
	"github.com/woozymasta/minilang/internal/render"
)

var errCheckFailed = errors.New("check failed")

var checkJobs int

var checkCmd = &cobra.Command{
	Use:   "check files...",
	Short: "Parse and lint files",
	Long: `Parses and lints each file concurrently and prints the findings.
Rules are enabled, disabled and re-leveled by the [check] config section.
Exits non-zero when a file fails to parse or a finding reaches check.fail_on.

Examples:
  minilang check a.ml b.ml
  minilang check --jobs 1 *.ml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "parallel files (default: config check.jobs)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	opt, err := checkOptions()
	if err != nil {
		return err
	}

	results, err := check.Files(cmd.Context(), args, opt)
	if err != nil {
		return err
	}

	if printResults(cmd.OutOrStdout(), results) > 0 {
		return errCheckFailed
	}

	return nil
}

// checkOptions builds check options from config and flags.
func checkOptions() (check.Options, error) {
	jobs := cfg.Check.Jobs
	if checkJobs > 0 {
		jobs = checkJobs
	}

	linter, err := cfg.Linter()
	if err != nil {
		return check.Options{}, err
	}

	return check.Options{
		Jobs:   jobs,
		Parse:  cfg.ParseOptions(logger),
		Linter: linter,
		Logger: logger,
	}, nil
}

// printResults prints issues and a summary and returns the failed file count.
func printResults(w io.Writer, results []check.Result) int {
	var failed, warnings int
	for _, r := range results {
		if r.Err != nil {
			_ = render.Failure(w, r.File, r.Err, styles)
		}
		_ = render.Diagnostics(w, r.File, r.Diagnostics, styles)

		if r.Failed() {
			failed++
		}
		for _, d := range r.Diagnostics {
			if d.Severity == lint.SeverityWarning {
				warnings++
			}
		}
	}

	_ = render.Summary(w, len(results), failed, warnings, styles)
	return failed
}
