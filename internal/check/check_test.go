package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/lintkit/lint"
	"github.com/woozymasta/lintkit/linting"

	"github.com/woozymasta/minilang"
	"github.com/woozymasta/minilang/internal/rules"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.ml":      "if x == 1 then y = 2; else y = 3;",
		"warn.ml":    "x = y / 0;",
		"broken.ml":  "x = ;",
		"invalid.ml": "x = 1 # 2;",
	})

	files := []string{
		filepath.Join(dir, "ok.ml"),
		filepath.Join(dir, "warn.ml"),
		filepath.Join(dir, "broken.ml"),
		filepath.Join(dir, "invalid.ml"),
		filepath.Join(dir, "missing.ml"),
	}

	for _, jobs := range []int{0, 1, 4} {
		results, err := Files(context.Background(), files, Options{Jobs: jobs})
		if err != nil {
			t.Fatalf("jobs=%d: Files() error = %v", jobs, err)
		}
		if len(results) != len(files) {
			t.Fatalf("jobs=%d: got %d results", jobs, len(results))
		}
		for i, r := range results {
			if r.File != files[i] {
				t.Fatalf("jobs=%d: result %d is for %s, want %s", jobs, i, r.File, files[i])
			}
		}

		if results[0].Failed() || len(results[0].Diagnostics) != 0 {
			t.Fatalf("ok.ml: unexpected result %+v", results[0])
		}
		if results[1].Failed() || len(results[1].Diagnostics) != 1 || results[1].Diagnostics[0].Code != "ML2001" {
			t.Fatalf("warn.ml: unexpected result %+v", results[1])
		}
		var ife *minilang.InvalidFactorError
		if !errors.As(results[2].Err, &ife) {
			t.Fatalf("broken.ml: expected invalid factor, got %v", results[2].Err)
		}
		if !errors.Is(results[3].Err, minilang.ErrLex) {
			t.Fatalf("invalid.ml: expected lex error, got %v", results[3].Err)
		}
		if !errors.Is(results[4].Err, os.ErrNotExist) || !results[4].Failed() {
			t.Fatalf("missing.ml: expected not-exist failure, got %v", results[4].Err)
		}
	}
}

func TestFilesPolicy(t *testing.T) {
	dir := writeFiles(t, map[string]string{"warn.ml": "x = y / 0;"})
	files := []string{filepath.Join(dir, "warn.ml")}

	tests := []struct {
		name     string
		policy   linting.RunPolicyConfig
		wantDiag int
		wantSev  lint.Severity
		wantFail bool
	}{
		{name: "default", wantDiag: 1, wantSev: lint.SeverityWarning},
		{
			name:   "disabled by code",
			policy: linting.RunPolicyConfig{Rules: []linting.RunPolicyRuleConfig{{Rule: "ML2001", Enabled: linting.BoolPtr(false)}}},
		},
		{
			name:     "raised by rule id",
			policy:   linting.RunPolicyConfig{Rules: []linting.RunPolicyRuleConfig{{Rule: "minilang.lint.div_zero", Severity: lint.SeverityError}}},
			wantDiag: 1, wantSev: lint.SeverityError, wantFail: true,
		},
		{
			name:     "fail on warning",
			policy:   linting.RunPolicyConfig{FailOn: lint.SeverityWarning},
			wantDiag: 1, wantSev: lint.SeverityWarning, wantFail: true,
		},
		{
			name:   "excluded path",
			policy: linting.RunPolicyConfig{Exclude: []string{"*.ml"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := rules.New(tt.policy)
			if err != nil {
				t.Fatalf("rules.New() error = %v", err)
			}

			results, err := Files(context.Background(), files, Options{Linter: l})
			if err != nil {
				t.Fatalf("Files() error = %v", err)
			}

			r := results[0]
			if r.Err != nil {
				t.Fatalf("unexpected error %v", r.Err)
			}
			if len(r.Diagnostics) != tt.wantDiag {
				t.Fatalf("got %d diagnostics, want %d: %+v", len(r.Diagnostics), tt.wantDiag, r.Diagnostics)
			}
			if tt.wantDiag > 0 && r.Diagnostics[0].Severity != tt.wantSev {
				t.Fatalf("severity = %q, want %q", r.Diagnostics[0].Severity, tt.wantSev)
			}
			if r.Failed() != tt.wantFail {
				t.Fatalf("Failed() = %v, want %v", r.Failed(), tt.wantFail)
			}
		})
	}
}

func TestFilesCanceled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"ok.ml": "x = 1;"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Files(ctx, []string{filepath.Join(dir, "ok.ml"), filepath.Join(dir, "ok.ml")}, Options{Jobs: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
