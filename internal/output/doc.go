// Package output renders pingpool results.
//
// Two paths exist. While a batch runs, a LineReporter (an
// executor.Reporter) streams the report lines:
//
//	Result: success=true duration=87 id=http://www.web4j.com
//	Shutdown called
//	Duration: 412 mS
//
// After a batch, a Formatter renders the executor.Report as a kubectl-style
// table, JSON or YAML. The text format prints only a summary line, since
// its result lines were already streamed.
//
// # Options
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
//
// Wide tables add an ERROR column holding probe errors such as malformed
// URLs.
//
// # Color Support
//
// Colors are enabled only for terminals and are disabled by WithNoColor.
// Reachable results are green, unreachable ones red, notices yellow and
// durations blue.
//
// # Progress
//
// NewProgress wraps a progress bar whose Update method matches the
// executor's batch progress callback.
package output
