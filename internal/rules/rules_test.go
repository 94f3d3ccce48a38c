package rules

import (
	"context"
	"testing"

	"github.com/woozymasta/lintkit/lint"
	"github.com/woozymasta/lintkit/linting"
	"github.com/woozymasta/lintkit/linttest"

	"github.com/woozymasta/minilang"
)

func mustParse(t *testing.T, src string) minilang.Node {
	t.Helper()
	n, err := minilang.Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return n
}

func diag(path string, r Rule, sev lint.Severity, msg string) lint.Diagnostic {
	pos := lint.Position{File: path}
	return lint.Diagnostic{
		RuleID:   r.ID(),
		Code:     r.Code,
		Severity: sev,
		Message:  msg,
		Path:     path,
		Start:    pos,
		End:      pos,
	}
}

func rule(t *testing.T, issue string) Rule {
	t.Helper()
	for _, r := range Catalog {
		if r.Issue == issue {
			return r
		}
	}
	t.Fatalf("no rule for %s", issue)
	return Rule{}
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	specs := engine.Rules()
	if len(specs) != 9 {
		t.Fatalf("got %d rules, want 9", len(specs))
	}

	issues := []string{
		minilang.CodeNilNode, minilang.CodeBadName, minilang.CodeBadOperator,
		minilang.CodeMisplacedNode, minilang.CodeDivZero, minilang.CodeSelfAssign,
		minilang.CodeTruthyCondition, minilang.CodeConstantCondition, minilang.CodeIdenticalBranches,
	}
	for _, issue := range issues {
		r := rule(t, issue)
		spec, ok := engine.Rule(r.ID())
		if !ok {
			t.Fatalf("rule %s not registered", r.ID())
		}
		if spec.Code != r.Code || spec.DefaultSeverity != r.Severity || spec.Module != Module {
			t.Errorf("rule %s registered as %+v", r.ID(), spec)
		}
	}

	if spec, _ := engine.Rule("minilang.tree.bad_name"); spec.DefaultSeverity != lint.SeverityError {
		t.Errorf("bad_name severity = %q, want error", spec.DefaultSeverity)
	}
	if spec, _ := engine.Rule("minilang.lint.identical_branches"); spec.DefaultSeverity != lint.SeverityWarning {
		t.Errorf("identical_branches severity = %q, want warning", spec.DefaultSeverity)
	}
}

func TestLinterRun(t *testing.T) {
	n := mustParse(t, "if 1 == 1 then x = x / 0; else x = x / 0;")

	tests := []struct {
		name     string
		policy   linting.RunPolicyConfig
		want     []lint.Diagnostic
		wantFail bool
	}{
		{
			name: "defaults",
			want: []lint.Diagnostic{
				diag("a.ml", rule(t, minilang.CodeDivZero), lint.SeverityWarning, "if.then.value: division by zero"),
				diag("a.ml", rule(t, minilang.CodeDivZero), lint.SeverityWarning, "if.else.value: division by zero"),
				diag("a.ml", rule(t, minilang.CodeConstantCondition), lint.SeverityWarning, "if.cond: condition does not reference any variable"),
				diag("a.ml", rule(t, minilang.CodeIdenticalBranches), lint.SeverityWarning, "if: then and else branches are identical"),
			},
		},
		{
			name: "scope disabled, one rule raised",
			policy: linting.RunPolicyConfig{Rules: []linting.RunPolicyRuleConfig{
				{Rule: "minilang.lint.*", Enabled: linting.BoolPtr(false)},
				{Rule: "ML2005", Enabled: linting.BoolPtr(true), Severity: lint.SeverityError},
			}},
			want: []lint.Diagnostic{
				diag("a.ml", rule(t, minilang.CodeIdenticalBranches), lint.SeverityError, "if: then and else branches are identical"),
			},
			wantFail: true,
		},
		{
			name:   "fail on notice",
			policy: linting.RunPolicyConfig{FailOn: lint.SeverityNotice, Rules: []linting.RunPolicyRuleConfig{{Rule: "*", Enabled: linting.BoolPtr(false)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.policy)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			res, err := l.Run(context.Background(), "a.ml", n)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(res.RuleErrors) != 0 {
				t.Fatalf("rule errors: %v", res.RuleErrors)
			}
			linttest.AssertDiagnosticsEqual(t, res.Diagnostics, tt.want)

			fail, err := l.ShouldFail(res)
			if err != nil {
				t.Fatalf("ShouldFail() error = %v", err)
			}
			if fail != tt.wantFail {
				t.Fatalf("ShouldFail() = %v, want %v", fail, tt.wantFail)
			}
		})
	}
}

func TestLinterRunMalformedTree(t *testing.T) {
	n := &minilang.Assignment{Target: &minilang.Name{Ident: "if"}, Value: &minilang.BinaryOp{Op: "%"}}

	l, err := New(linting.RunPolicyConfig{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := l.Run(context.Background(), "b.ml", n)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	linttest.AssertDiagnosticsEqual(t, res.Diagnostics, []lint.Diagnostic{
		diag("b.ml", rule(t, minilang.CodeBadName), lint.SeverityError, "assignment.target: invalid identifier \"if\""),
		diag("b.ml", rule(t, minilang.CodeBadOperator), lint.SeverityError, "assignment.value: unknown operator %"),
		diag("b.ml", rule(t, minilang.CodeNilNode), lint.SeverityError, "assignment.value.left: missing expression"),
		diag("b.ml", rule(t, minilang.CodeNilNode), lint.SeverityError, "assignment.value.right: missing expression"),
	})

	if fail, err := l.ShouldFail(res); err != nil || !fail {
		t.Fatalf("ShouldFail() = %v, %v, want true", fail, err)
	}
}

func TestRuleCheckWithoutValidatorOutput(t *testing.T) {
	r := rule(t, minilang.CodeDivZero)
	err := r.Check(context.Background(), &lint.RunContext{}, func(lint.Diagnostic) {
		t.Fatalf("unexpected diagnostic")
	})
	if err == nil {
		t.Fatalf("expected error without validator output")
	}
}
