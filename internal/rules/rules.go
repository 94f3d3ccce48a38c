// Package rules exposes the minilang validator codes as lintkit rules and
// runs them under a configurable policy.
package rules

import (
	"context"
	"fmt"

	"github.com/woozymasta/lintkit/lint"
	"github.com/woozymasta/lintkit/linting"

	"github.com/woozymasta/minilang"
)

const (
	// Module is the lint module namespace of every minilang rule.
	Module = "minilang"

	// issuesKey stores the validator output shared by all rule runners.
	issuesKey = Module + ".issues"

	scopeTree = "tree"
	scopeLint = "lint"
)

var scopeDescriptions = map[string]string{
	scopeTree: "Malformed trees the parser never produces.",
	scopeLint: "Findings on well-formed trees.",
}

// Catalog lists one rule per validator issue code.
var Catalog = []Rule{
	{Code: "ML1001", Issue: minilang.CodeNilNode, Scope: scopeTree, Severity: lint.SeverityError, Message: "missing node"},
	{Code: "ML1002", Issue: minilang.CodeBadName, Scope: scopeTree, Severity: lint.SeverityError, Message: "invalid identifier"},
	{Code: "ML1003", Issue: minilang.CodeBadOperator, Scope: scopeTree, Severity: lint.SeverityError, Message: "unknown operator"},
	{Code: "ML1004", Issue: minilang.CodeMisplacedNode, Scope: scopeTree, Severity: lint.SeverityError, Message: "node in wrong position"},
	{Code: "ML2001", Issue: minilang.CodeDivZero, Scope: scopeLint, Severity: lint.SeverityWarning, Message: "division by zero"},
	{Code: "ML2002", Issue: minilang.CodeSelfAssign, Scope: scopeLint, Severity: lint.SeverityWarning, Message: "variable assigned to itself"},
	{Code: "ML2003", Issue: minilang.CodeTruthyCondition, Scope: scopeLint, Severity: lint.SeverityWarning, Message: "condition is not a comparison"},
	{Code: "ML2004", Issue: minilang.CodeConstantCondition, Scope: scopeLint, Severity: lint.SeverityWarning, Message: "condition does not reference any variable"},
	{Code: "ML2005", Issue: minilang.CodeIdenticalBranches, Scope: scopeLint, Severity: lint.SeverityWarning, Message: "then and else branches are identical"},
}

// Rule binds one validator issue code to a lint rule.
type Rule struct {
	Code     string        // Public code, usable as a policy selector
	Issue    string        // minilang.Issue code reported by Validate
	Scope    string        // Rule scope, "tree" or "lint"
	Severity lint.Severity // Default severity
	Message  string        // Short rule description
}

// ID returns the stable rule identifier, e.g. minilang.lint.div_zero.
func (r Rule) ID() string {
	return Module + "." + r.Scope + "." + r.Issue
}

// RuleSpec implements lint.RuleRunner.
func (r Rule) RuleSpec() lint.RuleSpec {
	return lint.RuleSpec{
		ID:               r.ID(),
		Module:           Module,
		Scope:            r.Scope,
		ScopeDescription: scopeDescriptions[r.Scope],
		Code:             r.Code,
		Message:          r.Message,
		DefaultSeverity:  r.Severity,
	}
}

// Check implements lint.RuleRunner. It emits the issues with this rule's
// code from the validator output attached to run.
func (r Rule) Check(ctx context.Context, run *lint.RunContext, emit lint.DiagnosticEmit) error {
	issues, ok := lint.GetRunValue[[]minilang.Issue](run, issuesKey)
	if !ok {
		return fmt.Errorf("%s: validator output not attached", r.ID())
	}

	for _, it := range issues {
		if err := ctx.Err(); err != nil {
			return err
		}
		if it.Code != r.Issue {
			continue
		}
		emit(lint.Diagnostic{Code: r.Code, Message: it.Path + ": " + it.Message})
	}

	return nil
}

// NewEngine returns an engine with every catalog rule registered.
func NewEngine() (*linting.Engine, error) {
	engine := linting.NewEngine()
	if err := engine.RegisterModule(lint.ModuleSpec{
		ID:          Module,
		Name:        "minilang",
		Description: "Validator rules for minilang statement trees.",
	}); err != nil {
		return nil, err
	}

	runners := make([]lint.RuleRunner, 0, len(Catalog))
	for _, r := range Catalog {
		runners = append(runners, r)
	}
	if err := engine.Register(runners...); err != nil {
		return nil, err
	}

	return engine, nil
}

// Linter runs the catalog rules under one policy.
type Linter struct {
	engine  *linting.Engine
	profile linting.RunProfile
}

// New builds a linter for policy. Unknown rule selectors are rejected
// unless policy.SoftUnknownSelectors is set.
func New(policy linting.RunPolicyConfig) (*Linter, error) {
	engine, err := NewEngine()
	if err != nil {
		return nil, err
	}

	profile, err := linting.BuildRunProfile(linting.BuildRunProfileOptions{
		Base:       policy,
		Compiler:   linting.PathRulesCompiler(linting.PathRulesCompilerOptions{}),
		Registered: engine.Rules(),
	})
	if err != nil {
		return nil, fmt.Errorf("lint policy: %w", err)
	}

	return &Linter{engine: engine, profile: profile}, nil
}

// Rules returns the registered rule specs in stable order.
func (l *Linter) Rules() []lint.RuleSpec {
	return l.engine.Rules()
}

// Run validates n and reports the enabled rules' findings for path.
func (l *Linter) Run(ctx context.Context, path string, n minilang.Node) (linting.RunResult, error) {
	run := lint.RunContext{TargetPath: path}
	lint.SetRunValue(&run, issuesKey, minilang.Validate(n, nil))

	return l.engine.RunWithProfile(ctx, run, l.profile)
}

// ShouldFail reports whether res reaches the policy's fail_on severity.
// Rule runtime errors always fail.
func (l *Linter) ShouldFail(res linting.RunResult) (bool, error) {
	return l.profile.ShouldFail(res)
}
