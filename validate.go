package minilang

import (
	"strconv"
	"strings"
)

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue codes.
const (
	CodeNilNode           = "nil_node"
	CodeBadName           = "bad_name"
	CodeBadOperator       = "bad_operator"
	CodeMisplacedNode     = "misplaced_node"
	CodeDivZero           = "div_zero"
	CodeSelfAssign        = "self_assign"
	CodeTruthyCondition   = "truthy_condition"
	CodeConstantCondition = "constant_condition"
	CodeIdenticalBranches = "identical_branches"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Dotted path to the affected node
}

// HasErrors reports whether issues contain at least one error.
func HasErrors(issues []Issue) bool {
	for _, it := range issues {
		if it.Level == IssueError {
			return true
		}
	}

	return false
}

// Validate checks a statement tree and returns issues.
//
// Errors mark trees the parser could never produce (nil children, unknown
// operators, statements used as operands). Warnings are lint findings on
// otherwise valid trees.
func Validate(n Node, opt *ValidateOptions) []Issue {
	v := &validator{opt: opt.normalize()}
	root := "statement"
	if !isNil(n) {
		root = strings.ToLower(n.Kind().String())
	}

	v.statement(n, root)
	return v.out
}

// validator collects issues while walking a tree.
type validator struct {
	out []Issue
	opt ValidateOptions
}

// statement validates a node in statement position.
func (v *validator) statement(n Node, path string) {
	if isNil(n) {
		v.add(IssueError, CodeNilNode, "missing statement", path)
		return
	}

	switch s := n.(type) {
	case *Assignment:
		if s.Target == nil {
			v.add(IssueError, CodeNilNode, "assignment without target", path)
		} else {
			v.name(s.Target.Ident, path+".target")
			if !v.opt.DisableSelfAssignCheck {
				if val, ok := s.Value.(*Name); ok && val != nil && val.Ident == s.Target.Ident {
					v.add(IssueWarning, CodeSelfAssign, "variable assigned to itself", path)
				}
			}
		}
		v.expr(s.Value, path+".value")

	case *If:
		v.condition(s.Cond, path+".cond")
		v.statement(s.Then, path+".then")
		if !isNil(s.Else) {
			v.statement(s.Else, path+".else")
			if !v.opt.DisableBranchCheck && Equal(s.Then, s.Else) {
				v.add(IssueWarning, CodeIdenticalBranches, "then and else branches are identical", path)
			}
		}

	case *Conditional:
		v.add(IssueError, CodeMisplacedNode, "comparison used as a statement", path)
		v.expr(s.Left, path+".left")
		v.expr(s.Right, path+".right")

	default:
		v.expr(n, path)
	}
}

// condition validates an if condition.
func (v *validator) condition(n Node, path string) {
	if isNil(n) {
		v.add(IssueError, CodeNilNode, "missing condition", path)
		return
	}

	c, ok := n.(*Conditional)
	switch {
	case ok:
		v.expr(c.Left, path+".left")
		v.expr(c.Right, path+".right")
	case IsExpr(n):
		v.expr(n, path)
		if !v.opt.DisableConditionCheck {
			v.add(IssueWarning, CodeTruthyCondition, "condition is not a comparison", path)
		}
	default:
		v.expr(n, path)
		return
	}

	if !v.opt.DisableConditionCheck && !referencesName(n) {
		v.add(IssueWarning, CodeConstantCondition, "condition does not reference any variable", path)
	}
}

// expr validates a node in arithmetic operand position.
func (v *validator) expr(n Node, path string) {
	if isNil(n) {
		v.add(IssueError, CodeNilNode, "missing expression", path)
		return
	}

	switch e := n.(type) {
	case *Number:
	case *Name:
		v.name(e.Ident, path)
	case *BinaryOp:
		if !e.Op.IsArithmetic() {
			v.add(IssueError, CodeBadOperator, "unknown operator "+string(e.Op), path)
		}
		if !v.opt.DisableDivZeroCheck && e.Op == OpDiv {
			if num, ok := e.Right.(*Number); ok && num != nil && num.Value == 0 {
				v.add(IssueWarning, CodeDivZero, "division by zero", path)
			}
		}
		v.expr(e.Left, path+".left")
		v.expr(e.Right, path+".right")
	default:
		v.add(IssueError, CodeMisplacedNode, n.Kind().String()+" used as an operand", path)
	}
}

// name validates an identifier.
func (v *validator) name(ident, path string) {
	if !isValidIdent(ident) {
		v.add(IssueError, CodeBadName, "invalid identifier "+strconv.Quote(ident), path)
	}
}

// add appends an issue.
func (v *validator) add(level IssueLevel, code, msg, path string) {
	v.out = append(v.out, Issue{Level: level, Code: code, Message: msg, Path: path})
}

// referencesName reports whether any Name occurs in the tree.
func referencesName(n Node) bool {
	switch e := n.(type) {
	case *Name:
		return e != nil
	case *BinaryOp:
		return e != nil && (referencesName(e.Left) || referencesName(e.Right))
	case *Conditional:
		return e != nil && (referencesName(e.Left) || referencesName(e.Right))
	default:
		return false
	}
}
