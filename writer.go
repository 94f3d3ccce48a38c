package minilang

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Encode writes a statement tree to writer as source text.
func Encode(w io.Writer, n Node, opt *FormatOptions) error {
	fopt := opt.normalize()
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, indent: fopt.Indent, compact: fopt.Compact}
	if err := wr.writeStatement(n); err != nil {
		return err
	}
	if !fopt.DisableFinalNewline {
		if err := wr.writeString("\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// EncodeFile writes a statement tree to a file.
func EncodeFile(path string, n Node, opt *FormatOptions) error {
	b, err := Format(n, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// Format renders a statement tree to bytes.
func Format(n Node, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, n, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writer writes a statement tree to a writer.
type writer struct {
	w       io.Writer // Writer to write to
	indent  string    // Indentation string
	cache   []string  // Cache of indentation strings
	level   int       // Current nesting level
	compact bool      // Write everything on one line
}

// writeStatement writes an assignment, an if-statement or an expression.
func (w *writer) writeStatement(n Node) error {
	switch v := n.(type) {
	case *Assignment:
		if v == nil {
			return w.errorf("nil assignment")
		}
		return w.writeAssignment(v)
	case *If:
		if v == nil {
			return w.errorf("nil if")
		}
		return w.writeIf(v)
	case *Conditional:
		return w.errorf("comparison is only allowed as an if condition")
	default:
		return w.writeExpr(n)
	}
}

// writeAssignment writes "name = expr;".
func (w *writer) writeAssignment(a *Assignment) error {
	if a.Target == nil {
		return w.errorf("assignment without target")
	}
	if err := w.writeName(a.Target.Ident); err != nil {
		return err
	}
	if err := w.writeString(" = "); err != nil {
		return err
	}
	if err := w.writeExpr(a.Value); err != nil {
		return err
	}

	return w.writeString(";")
}

// writeIf writes an if-statement, one branch per line unless compact.
func (w *writer) writeIf(s *If) error {
	if err := w.writeString("if "); err != nil {
		return err
	}
	if err := w.writeCondition(s.Cond); err != nil {
		return err
	}
	if err := w.writeString(" then"); err != nil {
		return err
	}

	// Write then branch
	w.level++
	if err := w.breakLine(); err != nil {
		return err
	}
	if err := w.writeStatement(s.Then); err != nil {
		return err
	}
	if !isNil(s.Else) {
		// An else-less if at the end of the then branch would take our else.
		if n := danglingDepth(s.Then); n > 0 {
			if err := w.breakLine(); err != nil {
				return err
			}
			if err := w.writeString(strings.Repeat(";", n)); err != nil {
				return err
			}
		}
	}
	w.level--

	if isNil(s.Else) {
		return nil
	}

	// Write else branch
	if err := w.breakLine(); err != nil {
		return err
	}
	if err := w.writeString("else"); err != nil {
		return err
	}
	w.level++
	if err := w.breakLine(); err != nil {
		return err
	}
	if err := w.writeStatement(s.Else); err != nil {
		return err
	}
	w.level--

	return nil
}

// writeCondition writes an if condition: a comparison or a bare expression.
func (w *writer) writeCondition(n Node) error {
	c, ok := n.(*Conditional)
	if !ok {
		return w.writeExpr(n)
	}
	if c == nil {
		return w.errorf("nil comparison")
	}

	if err := w.writeExpr(c.Left); err != nil {
		return err
	}
	if err := w.writeString(" == "); err != nil {
		return err
	}

	return w.writeExpr(c.Right)
}

// writeExpr writes an arithmetic expression with minimal parentheses.
func (w *writer) writeExpr(n Node) error {
	if isNil(n) {
		return w.errorf("missing expression")
	}

	switch v := n.(type) {
	case *Number:
		return w.writeNumber(v.Value)
	case *Name:
		return w.writeName(v.Ident)
	case *BinaryOp:
		if !v.Op.IsArithmetic() {
			return w.errorf("unknown operator %q", v.Op)
		}

		prec := precedence(v.Op)
		if err := w.writeOperand(v.Left, prec, false); err != nil {
			return err
		}
		if err := w.writeString(" " + string(v.Op) + " "); err != nil {
			return err
		}
		return w.writeOperand(v.Right, prec, true)
	default:
		return w.errorf("%s cannot be used as an operand", n.Kind())
	}
}

// writeOperand writes one side of a binary operation.
// Right operands of equal precedence need parentheses to keep left associativity.
func (w *writer) writeOperand(n Node, parent int, right bool) error {
	b, ok := n.(*BinaryOp)
	if !ok || b == nil {
		return w.writeExpr(n)
	}

	prec := precedence(b.Op)
	if prec > parent || (prec == parent && !right) {
		return w.writeExpr(n)
	}

	if err := w.writeString("("); err != nil {
		return err
	}
	if err := w.writeExpr(n); err != nil {
		return err
	}

	return w.writeString(")")
}

// breakLine starts a new line at the current level, or writes a space when compact.
func (w *writer) breakLine() error {
	if w.compact {
		return w.writeString(" ")
	}
	if err := w.writeString("\n"); err != nil {
		return err
	}

	return w.writeIndent()
}

// writeIndent writes the current indentation level to the writer.
func (w *writer) writeIndent() error {
	if w.level <= 0 {
		return nil
	}

	return w.writeString(w.indentFor(w.level))
}

// writeName writes an identifier that must lex back as a Name token.
func (w *writer) writeName(ident string) error {
	if !isValidIdent(ident) {
		return w.errorf("invalid identifier %q", ident)
	}

	return w.writeString(ident)
}

// writeNumber writes a float64 value to the writer.
func (w *writer) writeNumber(v float64) error {
	// The grammar has no unary minus.
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return w.errorf("number %v cannot be written as a literal", v)
	}
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}

	var buf [32]byte
	b := strconv.AppendFloat(buf[:0], v, 'f', -1, 64)
	_, err := w.w.Write(b)

	return err
}

// writeString writes a string to the writer.
func (w *writer) writeString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// indentFor returns the indentation string for a nesting level.
func (w *writer) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(w.cache) <= level {
		w.cache = append(w.cache, make([]string, level-len(w.cache)+1)...)
	}
	if w.cache[level] == "" {
		// Cache computed indentation for this level.
		w.cache[level] = strings.Repeat(w.indent, level)
	}

	return w.cache[level]
}

// errorf formats a format error.
func (w *writer) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

// precedence returns the binding strength of an arithmetic operator.
func precedence(op Operator) int {
	switch op {
	case OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

// danglingDepth returns how many ";" must follow n so that a following "else"
// binds to the enclosing if instead of an else-less if at the tail of n.
// Every if on the tail consumes at most one optional ";".
func danglingDepth(n Node) int {
	depth, open := 0, false
	for {
		s, ok := n.(*If)
		if !ok || s == nil {
			return depth
		}

		if isNil(s.Else) {
			open = true
		}
		if open {
			depth++
		}

		if isNil(s.Else) {
			n = s.Then
		} else {
			n = s.Else
		}
	}
}

// isValidIdent reports whether s lexes as a single Name token.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	if _, ok := keywords[s]; ok {
		return false
	}

	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}

	return true
}
