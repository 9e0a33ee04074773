package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/output"
)

// newCompareCmd creates the compare command
func newCompareCmd() *cobra.Command {
	var allContexts bool

	cmd := &cobra.Command{
		Use:   "compare [targets...]",
		Short: "Run the batch in every mode and compare durations",
		Long: `Run the same batch in stream, batch and sequential mode, one after the
other, then print a table comparing counts, shutdown outcome and duration.

Text output streams the result lines of each run under a heading.`,
		Example: `  # Compare the built-in sites
  pingpool compare

  # Compare simulated targets with a single worker
  pingpool compare -p 1 "sim://a?latency=50ms" "sim://b?latency=80ms"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, allContexts)
		},
	}

	cmd.Flags().Bool("fail-fast", false, "stop the streaming run at the first failure")
	cmd.Flags().BoolVar(&allContexts, "all-contexts", false, "add a kube:// target for every kubeconfig context")
	addFaultFlags(cmd)

	return cmd
}

func runCompare(cmd *cobra.Command, args []string, allContexts bool) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	targets, err := s.resolveTargets(args, allContexts)
	if err != nil {
		return err
	}

	collector, err := s.collector()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reports := make([]executor.Report, 0, len(executor.Modes))

	var runErr error
	for _, mode := range executor.Modes {
		runner := s.newRunner(collector)

		if s.format.Streaming() {
			lines := output.NewLineReporter(out, s.noColor())
			lines.ReportHeading(mode)
			runner.Reporter = lines
		} else {
			runner.Reporter = output.NewNoticeReporter(cmd.ErrOrStderr(), s.noColor())
		}

		report, err := runner.Run(cmd.Context(), mode, targets)
		if report.Submitted > 0 {
			reports = append(reports, report)
		}
		if err != nil {
			runErr = fmt.Errorf("%s run: %w", mode, err)
			break
		}
	}

	// Text output already streamed the result lines; the comparison is a table
	format := s.format
	if format.Streaming() {
		format = output.FormatTable
	}

	if len(reports) > 0 {
		formatter := output.NewFormatter(format, output.WithNoColor(s.noColor()))
		if err := formatter.FormatComparison(out, reports); err != nil {
			return fmt.Errorf("failed to format comparison: %w", err)
		}
	}

	if err := writeMetrics(cmd, collector); err != nil {
		return err
	}

	return runErr
}
