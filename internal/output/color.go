package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Target colors target identifiers and mode names
	Target func(format string, a ...interface{}) string

	// Success colors reachable results
	Success func(format string, a ...interface{}) string

	// Error colors unreachable results and failures
	Error func(format string, a ...interface{}) string

	// Warning colors notices such as early termination
	Warning func(format string, a ...interface{}) string

	// Header colors table headers and section headings
	Header func(format string, a ...interface{}) string

	// Duration colors duration values
	Duration func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme.
// Colors are disabled for non-TTY writers or when noColor is true.
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	if noColor || !isTTY(w) {
		plain := color.New()
		plain.DisableColor()
		return &ColorScheme{
			Target:   plain.Sprintf,
			Success:  plain.Sprintf,
			Error:    plain.Sprintf,
			Warning:  plain.Sprintf,
			Header:   plain.Sprintf,
			Duration: plain.Sprintf,
			Disabled: true,
		}
	}

	return &ColorScheme{
		Target:   colorFunc(color.FgCyan, color.Bold),
		Success:  colorFunc(color.FgGreen),
		Error:    colorFunc(color.FgRed, color.Bold),
		Warning:  colorFunc(color.FgYellow),
		Header:   colorFunc(color.FgWhite, color.Bold),
		Duration: colorFunc(color.FgBlue),
		Disabled: false,
	}
}

// colorFunc forces color on, since the writer has already been checked
func colorFunc(attrs ...color.Attribute) func(format string, a ...interface{}) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprintf
}

// isTTY checks if the writer is a terminal
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns the error color for failures and the success color otherwise
func (cs *ColorScheme) StatusColor(failed bool) func(format string, a ...interface{}) string {
	if failed {
		return cs.Error
	}
	return cs.Success
}
