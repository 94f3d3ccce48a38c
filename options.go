package minilang

import (
	"io"
	"log/slog"
)

// ParseOptions controls lexing and parsing behavior.
type ParseOptions struct {
	// Logger receives debug records from the lexer and parser. Nil disables logging.
	Logger *slog.Logger
	// DisableComments disables // and /* */ comments.
	DisableComments bool
	// DisableTrailingCheck allows tokens after the statement in Parse, Decode and DecodeFile.
	// Parser.Parse never checks what follows the statement.
	DisableTrailingCheck bool
}

// FormatOptions controls writer formatting.
type FormatOptions struct {
	// Indent is the indentation string for if branches (default is four spaces).
	Indent string
	// Compact writes the whole statement on one line.
	Compact bool
	// DisableFinalNewline omits the newline after the statement.
	DisableFinalNewline bool
}

// ValidateOptions controls validation rules.
// Structural errors are always reported; only lint warnings can be disabled.
type ValidateOptions struct {
	// DisableDivZeroCheck disables warnings for division by a literal zero.
	DisableDivZeroCheck bool
	// DisableSelfAssignCheck disables warnings for "x = x;".
	DisableSelfAssignCheck bool
	// DisableConditionCheck disables warnings for if conditions that are not
	// comparisons or that do not reference any variable.
	DisableConditionCheck bool
	// DisableBranchCheck disables warnings for identical then and else branches.
	DisableBranchCheck bool
}

// discardLogger drops every record.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// logger returns the configured logger or a discarding one.
func (o ParseOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return discardLogger
	}

	return o.Logger
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{}
	}

	return *o
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "    "}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "    "
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{}
	}

	return *o
}
