package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/woozymasta/lintkit/lint"
)

// Palette
var (
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

// Styles groups the styles used for diagnostics.
type Styles struct {
	File    lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Path    lipgloss.Style
	Success lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is false.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{File: plain, Error: plain, Warning: plain, Path: plain, Success: plain}
	}

	return Styles{
		File:    lipgloss.NewStyle().Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Path:    lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	}
}

// Diagnostics writes lint findings for file, one per line:
//
//	file: warning[ML2001] if.then.value: division by zero
func Diagnostics(w io.Writer, file string, diags []lint.Diagnostic, st Styles) error {
	for _, d := range diags {
		var level string
		switch d.Severity {
		case lint.SeverityError:
			level = st.Error.Render(string(d.Severity))
		case lint.SeverityWarning:
			level = st.Warning.Render(string(d.Severity))
		default:
			level = st.Path.Render(string(d.Severity))
		}

		code := d.Code
		if code == "" {
			code = d.RuleID
		}

		_, err := fmt.Fprintf(w, "%s: %s[%s] %s\n", st.File.Render(file), level, code, d.Message)
		if err != nil {
			return err
		}
	}

	return nil
}

// Failure writes a file-level error such as a parse failure.
func Failure(w io.Writer, file string, err error, st Styles) error {
	_, werr := fmt.Fprintf(w, "%s: %s: %v\n", st.File.Render(file), st.Error.Render("error"), err)
	return werr
}

// Summary writes the closing line of a check run.
func Summary(w io.Writer, files, failed, warnings int, st Styles) error {
	msg := fmt.Sprintf("%d file(s) checked, %d failed, %d warning(s)", files, failed, warnings)
	if failed == 0 {
		msg = st.Success.Render(msg)
	} else {
		msg = st.Error.Render(msg)
	}

	_, err := fmt.Fprintln(w, msg)
	return err
}
