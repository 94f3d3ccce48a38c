// Package config loads the minilang CLI configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/woozymasta/lintkit/lint"
	"github.com/woozymasta/lintkit/linting"

	"github.com/woozymasta/minilang"
	"github.com/woozymasta/minilang/internal/rules"
)

const (
	// EnvConfig names the environment variable holding the config path.
	EnvConfig = "MINILANG_CONFIG"
	// DefaultPath is used when neither a flag nor the environment names a file.
	DefaultPath = "minilang.toml"
)

// ErrVersionMismatch indicates the running CLI does not satisfy general.requires.
var ErrVersionMismatch = errors.New("version mismatch")

// Config holds the complete CLI configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Parse   ParseConfig   `toml:"parse"`
	Format  FormatConfig  `toml:"format"`
	Check   CheckConfig   `toml:"check"`
}

// GeneralConfig holds general settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	Requires string `toml:"requires"`
}

// ParseConfig maps to minilang.ParseOptions.
type ParseConfig struct {
	DisableComments      bool `toml:"disable_comments"`
	DisableTrailingCheck bool `toml:"disable_trailing_check"`
}

// FormatConfig maps to minilang.FormatOptions.
type FormatConfig struct {
	Indent              string `toml:"indent"`
	Compact             bool   `toml:"compact"`
	DisableFinalNewline bool   `toml:"disable_final_newline"`
}

// CheckConfig holds settings for the check and watch commands.
type CheckConfig struct {
	Jobs                 int          `toml:"jobs"`
	FailOn               string       `toml:"fail_on"`
	Exclude              []string     `toml:"exclude"`
	SoftUnknownSelectors bool         `toml:"soft_unknown_selectors"`
	Rules                []RuleConfig `toml:"rules"`
}

// RuleConfig is one ordered [[check.rules]] entry. Rule is a selector:
// "*", "minilang.*", "minilang.lint.*", a rule ID such as
// "minilang.lint.div_zero", or a code such as "ML2001".
type RuleConfig struct {
	Rule     string   `toml:"rule"`
	Enabled  *bool    `toml:"enabled"`
	Severity string   `toml:"severity"`
	Exclude  []string `toml:"exclude"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Resolve picks the config file: the explicit path, then $MINILANG_CONFIG,
// then ./minilang.toml. A missing default file yields Default().
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return Load(env)
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}

	return Default(), nil
}

// applyDefaults sets default values for missing configuration.
func (c *Config) applyDefaults() {
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.Format.Indent == "" {
		c.Format.Indent = "    "
	}
	if c.Check.Jobs <= 0 {
		c.Check.Jobs = runtime.NumCPU()
	}
	if c.Check.FailOn == "" {
		c.Check.FailOn = string(lint.SeverityError)
	}
}

// validate checks values that cannot be defaulted.
func (c *Config) validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.General.Requires != "" {
		if _, err := semver.NewConstraint(c.General.Requires); err != nil {
			return fmt.Errorf("requires %q: %w", c.General.Requires, err)
		}
	}
	if !lint.IsSupportedSeverity(lint.Severity(c.Check.FailOn)) {
		return fmt.Errorf("fail_on %q: unsupported severity", c.Check.FailOn)
	}
	for i, r := range c.Check.Rules {
		if r.Rule == "" {
			return fmt.Errorf("check.rules[%d]: empty rule selector", i)
		}
		if r.Severity != "" && !lint.IsSupportedSeverity(lint.Severity(r.Severity)) {
			return fmt.Errorf("check.rules[%d] severity %q: unsupported severity", i, r.Severity)
		}
	}

	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.General.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.General.LogLevel, err)
	}

	return lvl, nil
}

// CheckVersion verifies that version satisfies general.requires.
// An empty constraint accepts any version.
func (c *Config) CheckVersion(version string) error {
	if c.General.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.General.Requires)
	if err != nil {
		return fmt.Errorf("requires %q: %w", c.General.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: minilang %s does not satisfy %q", ErrVersionMismatch, v, c.General.Requires)
	}

	return nil
}

// ParseOptions builds parser options using logger.
func (c *Config) ParseOptions(logger *slog.Logger) *minilang.ParseOptions {
	return &minilang.ParseOptions{
		Logger:               logger,
		DisableComments:      c.Parse.DisableComments,
		DisableTrailingCheck: c.Parse.DisableTrailingCheck,
	}
}

// FormatOptions builds writer options.
func (c *Config) FormatOptions() *minilang.FormatOptions {
	return &minilang.FormatOptions{
		Indent:              c.Format.Indent,
		Compact:             c.Format.Compact,
		DisableFinalNewline: c.Format.DisableFinalNewline,
	}
}

// Policy builds the lint run policy from the [check] section.
func (c *Config) Policy() linting.RunPolicyConfig {
	policy := linting.RunPolicyConfig{
		FailOn:               lint.Severity(c.Check.FailOn),
		Exclude:              c.Check.Exclude,
		SoftUnknownSelectors: c.Check.SoftUnknownSelectors,
	}
	for _, r := range c.Check.Rules {
		policy.Rules = append(policy.Rules, linting.RunPolicyRuleConfig{
			Rule:     r.Rule,
			Enabled:  r.Enabled,
			Severity: lint.Severity(r.Severity),
			Exclude:  r.Exclude,
		})
	}

	return policy
}

// Linter builds the rule runner for the [check] section. Unknown rule
// selectors are rejected unless soft_unknown_selectors is set.
func (c *Config) Linter() (*rules.Linter, error) {
	return rules.New(c.Policy())
}
