package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/woozymasta/lintkit/lint"
	"github.com/woozymasta/lintkit/linting"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "minilang.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.Format.Indent != "    " {
		t.Errorf("Format.Indent = %q, want four spaces", cfg.Format.Indent)
	}
	if cfg.Check.Jobs != runtime.NumCPU() {
		t.Errorf("Check.Jobs = %d, want %d", cfg.Check.Jobs, runtime.NumCPU())
	}
	if cfg.Check.FailOn != "error" {
		t.Errorf("Check.FailOn = %q, want error", cfg.Check.FailOn)
	}
	if err := cfg.CheckVersion("0.0.1"); err != nil {
		t.Errorf("CheckVersion() without requires = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[general]
log_level = "debug"
requires = ">= 0.1.0, < 1.0.0"

[parse]
disable_comments = true

[format]
indent = "\t"
compact = true

[check]
jobs = 3
fail_on = "warning"
exclude = ["generated/**"]

[[check.rules]]
rule = "ML2001"
enabled = false

[[check.rules]]
rule = "minilang.lint.*"
severity = "notice"
exclude = ["legacy/**"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if lvl, err := cfg.Level(); err != nil || lvl != slog.LevelDebug {
		t.Errorf("Level() = %v, %v, want debug", lvl, err)
	}
	if cfg.Check.Jobs != 3 {
		t.Errorf("Check.Jobs = %d, want 3", cfg.Check.Jobs)
	}

	popt := cfg.ParseOptions(nil)
	if !popt.DisableComments || popt.DisableTrailingCheck {
		t.Errorf("ParseOptions() = %+v", popt)
	}
	fopt := cfg.FormatOptions()
	if fopt.Indent != "\t" || !fopt.Compact {
		t.Errorf("FormatOptions() = %+v", fopt)
	}

	policy := cfg.Policy()
	if policy.FailOn != lint.SeverityWarning || len(policy.Exclude) != 1 || len(policy.Rules) != 2 {
		t.Fatalf("Policy() = %+v", policy)
	}
	if r := policy.Rules[0]; r.Rule != "ML2001" || r.Enabled == nil || *r.Enabled {
		t.Errorf("Policy().Rules[0] = %+v", r)
	}
	if r := policy.Rules[1]; r.Severity != lint.SeverityNotice || r.Enabled != nil || len(r.Exclude) != 1 {
		t.Errorf("Policy().Rules[1] = %+v", r)
	}
	if _, err := cfg.Linter(); err != nil {
		t.Errorf("Linter() error = %v", err)
	}
}

func TestLinterUnknownSelector(t *testing.T) {
	cfg := Default()
	cfg.Check.Rules = []RuleConfig{{Rule: "ML9999", Enabled: linting.BoolPtr(false)}}
	if _, err := cfg.Linter(); !errors.Is(err, linting.ErrUnknownRuleSelector) {
		t.Fatalf("Linter() error = %v, want unknown selector", err)
	}

	cfg.Check.SoftUnknownSelectors = true
	if _, err := cfg.Linter(); err != nil {
		t.Fatalf("Linter() with soft selectors error = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{name: "syntax", body: "[general\n", msg: "failed to parse config"},
		{name: "unknown_key", body: "[general]\ncolour = true\n", msg: "unknown config key \"general.colour\""},
		{name: "bad_level", body: "[general]\nlog_level = \"loud\"\n", msg: "log_level"},
		{name: "bad_constraint", body: "[general]\nrequires = \"not a version\"\n", msg: "requires"},
		{name: "bad_fail_on", body: "[check]\nfail_on = \"fatal\"\n", msg: "fail_on"},
		{name: "bad_rule_severity", body: "[[check.rules]]\nrule = \"*\"\nseverity = \"loud\"\n", msg: "check.rules[0] severity"},
		{name: "empty_rule", body: "[[check.rules]]\nenabled = false\n", msg: "empty rule selector"},
		{name: "unknown_rule_key", body: "[[check.rules]]\nrule = \"*\"\nlevel = \"error\"\n", msg: "unknown config key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("Load() error = %v, want message containing %q", err, tt.msg)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name     string
		requires string
		version  string
		wantErr  bool
	}{
		{"empty", "", "0.1.0", false},
		{"satisfied", ">= 0.1.0", "0.1.0", false},
		{"caret", "^0.1", "0.1.7", false},
		{"too_old", ">= 0.2.0", "0.1.0", true},
		{"major", "^1.0.0", "0.1.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.General.Requires = tt.requires

			err := cfg.CheckVersion(tt.version)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrVersionMismatch) {
				t.Fatalf("expected ErrVersionMismatch, got %v", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvConfig, "")

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() without files error = %v", err)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("expected defaults, got %+v", cfg.General)
	}

	writeConfig(t, dir, "[general]\nlog_level = \"warn\"\n")
	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve() default file error = %v", err)
	}
	if cfg.General.LogLevel != "warn" {
		t.Errorf("expected default file to be loaded, got %q", cfg.General.LogLevel)
	}

	other := filepath.Join(t.TempDir(), "other.toml")
	if err := os.WriteFile(other, []byte("[general]\nlog_level = \"error\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfig, other)
	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve() env error = %v", err)
	}
	if cfg.General.LogLevel != "error" {
		t.Errorf("expected env file to win over default, got %q", cfg.General.LogLevel)
	}

	if _, err := Resolve(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}
