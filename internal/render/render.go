// Package render prints trees, tokens and diagnostics for the minilang CLI.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/minilang"
)

// ErrUnknownFormat indicates an unsupported tree output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Tree output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Tree writes the tagged view of n as JSON or YAML.
func Tree(w io.Writer, n minilang.Node, format string) error {
	info := minilang.Describe(n)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Tokens writes one token per line as `line:col Type "lit"`.
func Tokens(w io.Writer, toks []minilang.Token) error {
	for _, tok := range toks {
		line := fmt.Sprintf("%d:%d %s", tok.Line, tok.Col, tok.Type)
		if tok.Lit != "" {
			line += " " + strconv.Quote(tok.Lit)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
