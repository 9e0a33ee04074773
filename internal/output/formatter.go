package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/util"
)

// Format represents the output format type
type Format string

const (
	// FormatText streams one line per result as it is reported
	FormatText Format = "text"
	// FormatTable outputs a kubectl-style table after the batch completes
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formats lists the accepted values of --output
var Formats = []Format{FormatText, FormatTable, FormatJSON, FormatYAML}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", util.NewValidationError("output", s, "must be one of text, table, json, yaml")
}

// Streaming reports whether results are written while the batch runs
// rather than rendered once it completes
func (f Format) Streaming() bool {
	return f == FormatText
}

// Formatter renders finished batches
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatReport outputs one batch report
	FormatReport(w io.Writer, report executor.Report) error

	// FormatComparison outputs several reports of the same batch side by side
	FormatComparison(w io.Writer, reports []executor.Report) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide adds the error column to result tables
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatText:
		return NewTextFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// TextFormatter prints a one-line summary. The result lines themselves are
// written by a LineReporter while the batch runs.
type TextFormatter struct {
	options *Options
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(opts *Options) *TextFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TextFormatter{options: opts}
}

// Format prints data with fmt
func (f *TextFormatter) Format(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintln(w, data)
	return err
}

// FormatReport prints the summary line for report
func (f *TextFormatter) FormatReport(w io.Writer, report executor.Report) error {
	colors := NewColorScheme(w, f.options.NoColor)
	_, err := fmt.Fprintln(w, summaryLine(report, colors))
	return err
}

// FormatComparison prints one summary line per report
func (f *TextFormatter) FormatComparison(w io.Writer, reports []executor.Report) error {
	colors := NewColorScheme(w, f.options.NoColor)
	for _, r := range reports {
		if _, err := fmt.Fprintln(w, summaryLine(r, colors)); err != nil {
			return err
		}
	}
	return nil
}

// summaryLine renders counts, shutdown outcome and duration for a report
func summaryLine(report executor.Report, colors *ColorScheme) string {
	summary := executor.Summarize(report.Results)

	successText := colors.Success("%d successful", summary.Successful)
	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if summary.Failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	line := fmt.Sprintf("Summary (%s): %s, %s", report.Mode, successText, failedText)
	if missing := report.Missing(); missing > 0 {
		line += ", " + colors.Warning("%d not reported", missing)
	}
	if report.Outcome != executor.OutcomeNone {
		line += fmt.Sprintf(", shutdown=%s", report.Outcome)
	}
	line += ", " + colors.Duration("%d mS", report.Duration.Milliseconds())

	return line
}
