package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/woozymasta/minilang"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format statements",
	Long: `Formats each file and prints the result, or rewrites the files with -w.
Without files, stdin is formatted to stdout.

Examples:
  minilang fmt stmt.ml
  minilang fmt -w *.ml`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to the source file")
}

func runFmt(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if fmtWrite {
			return fmt.Errorf("cannot use -w with stdin")
		}
		args = []string{"-"}
	}

	for _, arg := range args {
		name, data, err := readInput(cmd, []string{arg})
		if err != nil {
			return err
		}

		n, err := minilang.Parse(data, cfg.ParseOptions(logger))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		out, err := minilang.Format(n, cfg.FormatOptions())
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		if !fmtWrite || arg == "-" {
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			continue
		}

		if bytes.Equal(out, data) {
			logger.Debug("already formatted", slog.String("file", name))
			continue
		}

		info, err := os.Stat(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(name, out, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Info("formatted", slog.String("file", name))
	}

	return nil
}
