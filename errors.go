package minilang

import (
	"errors"
	"fmt"
)

var (
	// ErrBinarySource indicates the input is not text (NUL bytes found).
	ErrBinarySource = errors.New("binary source")

	// ErrLex indicates a lexer failure.
	ErrLex = errors.New("lex error")

	// ErrParse indicates a parser failure.
	ErrParse = errors.New("parse error")

	// ErrFormat indicates a tree that cannot be written back as source text.
	ErrFormat = errors.New("format error")
)

// UnexpectedTokenError reports a token whose type does not match what the
// active grammar production requires.
type UnexpectedTokenError struct {
	Got      Token     // Offending token
	Expected TokenType // Token type the production required
}

// Error implements the error interface.
func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("%s at %d:%d: unexpected token: %s, expected: %s",
		ErrParse, e.Got.Line, e.Got.Col, e.Got.Type, e.Expected)
}

// Unwrap makes errors.Is(err, ErrParse) hold.
func (e *UnexpectedTokenError) Unwrap() error {
	return ErrParse
}

// InvalidFactorError reports a token that cannot begin a factor
// (not a number, a name or a left parenthesis).
type InvalidFactorError struct {
	Token Token // Offending token
}

// Error implements the error interface.
func (e *InvalidFactorError) Error() string {
	return fmt.Sprintf("%s at %d:%d: invalid factor: %q", ErrParse, e.Token.Line, e.Token.Col, e.Token.Lit)
}

// Unwrap makes errors.Is(err, ErrParse) hold.
func (e *InvalidFactorError) Unwrap() error {
	return ErrParse
}
