package output

import (
	"io"

	"github.com/aryankumar/pingpool/internal/executor"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatReport outputs a report as a YAML mapping
func (f *YAMLFormatter) FormatReport(w io.Writer, report executor.Report) error {
	return f.Format(w, NewReportDocument(report))
}

// FormatComparison outputs reports as a YAML sequence
func (f *YAMLFormatter) FormatComparison(w io.Writer, reports []executor.Report) error {
	return f.Format(w, newReportDocuments(reports))
}
