package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/pingpool/internal/executor"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatReport outputs a report as a JSON object
func (f *JSONFormatter) FormatReport(w io.Writer, report executor.Report) error {
	return f.Format(w, NewReportDocument(report))
}

// FormatComparison outputs reports as a JSON array
func (f *JSONFormatter) FormatComparison(w io.Writer, reports []executor.Report) error {
	return f.Format(w, newReportDocuments(reports))
}
