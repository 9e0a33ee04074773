package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a table (kubectl-style)
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	case []string:
		return f.formatList(f.createTable(w), v)
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// FormatReport outputs one row per reported result followed by a summary
func (f *TableFormatter) FormatReport(w io.Writer, report executor.Report) error {
	if len(report.Results) == 0 {
		fmt.Fprintln(w, "No results")
		fmt.Fprintln(w, summaryLine(report, NewColorScheme(w, f.options.NoColor)))
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"TARGET", "STATUS", "DURATION"}
	if f.options.Wide {
		headers = append(headers, "ERROR")
	}
	f.setHeader(table, headers, colors)

	for _, result := range report.Results {
		table.Append(f.formatResultRow(result, colors))
	}
	table.Render()

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, summaryLine(report, colors))
	if report.Terminated {
		fmt.Fprintln(w, colors.Warning("Terminated early by %s", report.Trigger))
	}

	return nil
}

// FormatComparison outputs one row per strategy
func (f *TableFormatter) FormatComparison(w io.Writer, reports []executor.Report) error {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeader(table, []string{"MODE", "WORKERS", "REPORTED", "SUCCESSFUL", "FAILED", "SHUTDOWN", "DURATION"}, colors)

	for _, r := range reports {
		table.Append([]string{
			colors.Target("%s", r.Mode),
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%d/%d", len(r.Results), r.Submitted),
			fmt.Sprintf("%d", executor.CountSuccessful(r.Results)),
			fmt.Sprintf("%d", executor.CountFailed(r.Results)),
			r.Outcome.String(),
			colors.Duration("%d mS", r.Duration.Milliseconds()),
		})
	}
	table.Render()

	return nil
}

// formatResultRow formats a single result as a table row
func (f *TableFormatter) formatResultRow(result executor.Result, colors *ColorScheme) []string {
	status := "Reachable"
	if !result.Success {
		status = "Unreachable"
	}

	row := []string{
		colors.Target("%s", result.ID),
		colors.StatusColor(!result.Success)("%s", status),
		colors.Duration("%d mS", result.DurationMs()),
	}

	if f.options.Wide {
		errText := ""
		if result.Err != nil {
			errText = result.Err.Error()
			if len(errText) > 60 {
				errText = errText[:57] + "..."
			}
		}
		row = append(row, errText)
	}

	return row
}

func (f *TableFormatter) setHeader(table *tablewriter.Table, headers []string, colors *ColorScheme) {
	if f.options.NoHeaders {
		return
	}
	if colors.Disabled {
		table.SetHeader(headers)
		return
	}

	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colors.Header("%s", h)
	}
	table.SetHeader(colored)
}

// formatMap formats a map as a two-column table sorted by key
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// formatList formats a list of strings as an indexed table
func (f *TableFormatter) formatList(table *tablewriter.Table, items []string) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"#", "VALUE"})
	}
	for i, item := range items {
		table.Append([]string{fmt.Sprintf("%d", i+1), item})
	}
	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}
