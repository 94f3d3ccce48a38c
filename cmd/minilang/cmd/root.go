package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/woozymasta/minilang/internal/config"
	"github.com/woozymasta/minilang/internal/render"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// Populated by PersistentPreRunE before any command runs.
var (
	cfg    *config.Config
	logger *slog.Logger
	styles render.Styles
)

var rootCmd = &cobra.Command{
	Use:   "minilang",
	Short: "Parse, format and check minilang statements",
	Long: `minilang works with single statements of a small language with
arithmetic, assignment and if/then/else:

  x = (a + 1) * 2;
  if x == 1 then y = 2; else y = 3;

Configuration is read from --config, $MINILANG_CONFIG or ./minilang.toml.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./minilang.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// setup loads configuration and builds the logger and styles.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	if err := c.CheckVersion(Version); err != nil {
		return err
	}

	level, err := c.Level()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	cfg = c
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	styles = render.NewStyles(!noColor)
	logger.Debug("config loaded", slog.String("log_level", c.General.LogLevel), slog.Int("jobs", c.Check.Jobs))

	return nil
}

// readInput reads a single source from a file argument, or stdin for none or "-".
func readInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, err
	}

	return args[0], data, nil
}
