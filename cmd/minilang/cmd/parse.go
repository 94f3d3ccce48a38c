package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woozymasta/minilang"
	"github.com/woozymasta/minilang/internal/render"
)

var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse one statement and print its tree",
	Long: `Parses a single statement and prints the tree as JSON or YAML.

Examples:
  minilang parse stmt.ml
  echo "x = 2 + y;" | minilang parse --output yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", render.FormatJSON, "output format (json, yaml)")
}

func runParse(cmd *cobra.Command, args []string) error {
	name, data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	n, err := minilang.Parse(data, cfg.ParseOptions(logger))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return render.Tree(cmd.OutOrStdout(), n, parseOutput)
}
