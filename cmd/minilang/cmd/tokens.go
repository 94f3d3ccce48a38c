package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woozymasta/minilang"
	"github.com/woozymasta/minilang/internal/render"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file|-]",
	Short: "Print the token stream",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, data, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		toks, err := minilang.Tokenize(data, cfg.ParseOptions(logger))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		return render.Tokens(cmd.OutOrStdout(), toks)
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
