package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/faultinject"
	"github.com/aryankumar/pingpool/internal/output"
)

type pingOptions struct {
	progress    bool
	wide        bool
	noHeaders   bool
	allContexts bool
}

// newPingCmd creates the ping command
func newPingCmd() *cobra.Command {
	opts := &pingOptions{}

	cmd := &cobra.Command{
		Use:   "ping [targets...]",
		Short: "Probe a batch of targets on the worker pool",
		Long: `Probe a batch of targets on a bounded worker pool.

Targets come from the arguments, then the config file, then a built-in list.
Equivalent targets are probed once.

Modes:
  stream       report each result as it completes (default)
  batch        report all results at the end, in submission order
  sequential   probe one target at a time without a pool

With --fail-fast a streaming run stops at the first failed probe, prints
"Shutdown called" and discards results still in flight.`,
		Example: `  # Report each site as it answers
  pingpool ping

  # Stop at the first failure after corrupting the first target
  pingpool ping --fail-fast --corrupt-index 0

  # Batch mode with a progress bar and a table
  pingpool ping --mode batch --progress -o table

  # Probe every kubeconfig context
  pingpool ping --all-contexts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(cmd, args, opts)
		},
	}

	cmd.Flags().String("mode", "", "completion mode (stream, batch, sequential)")
	cmd.Flags().Bool("fail-fast", false, "stop a streaming run at the first failure")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a progress bar in batch mode")
	cmd.Flags().BoolVar(&opts.wide, "wide", false, "add an ERROR column to table output")
	cmd.Flags().BoolVar(&opts.noHeaders, "no-headers", false, "omit table headers")
	cmd.Flags().BoolVar(&opts.allContexts, "all-contexts", false, "add a kube:// target for every kubeconfig context")
	addFaultFlags(cmd)

	return cmd
}

// addFaultFlags registers the fault injection flags
func addFaultFlags(cmd *cobra.Command) {
	cmd.Flags().Int("corrupt-index", -1, "index of the target to corrupt (-1 disables)")
	cmd.Flags().Int("corrupt-count", 1, "number of characters to corrupt")
	cmd.Flags().Int("corrupt-offset", faultinject.DefaultOffset, "first character eligible for corruption")
	cmd.Flags().Uint64("seed", 0, "seed for the corrupted positions")
}

func runPing(cmd *cobra.Command, args []string, opts *pingOptions) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	mode, err := executor.ParseMode(s.cfg.Defaults.Mode)
	if err != nil {
		return err
	}

	targets, err := s.resolveTargets(args, opts.allContexts)
	if err != nil {
		return err
	}

	collector, err := s.collector()
	if err != nil {
		return err
	}

	runner := s.newRunner(collector)
	out := cmd.OutOrStdout()

	if s.format.Streaming() {
		runner.Reporter = output.NewLineReporter(out, s.noColor())
	} else {
		runner.Reporter = output.NewNoticeReporter(cmd.ErrOrStderr(), s.noColor())
	}

	if opts.progress {
		if mode == executor.ModeBatch {
			bar := output.NewProgress(cmd.ErrOrStderr(), len(targets), "probing")
			runner.Progress = bar.Update
			defer bar.Finish()
		} else {
			s.logger.Warn("--progress only applies to batch mode", "mode", mode)
		}
	}

	report, runErr := runner.Run(cmd.Context(), mode, targets)
	if runErr != nil && report.Submitted == 0 {
		return runErr
	}

	formatter := output.NewFormatter(s.format,
		output.WithNoColor(s.noColor()),
		output.WithWide(opts.wide),
		output.WithNoHeaders(opts.noHeaders),
	)
	if err := formatter.FormatReport(out, report); err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if err := writeMetrics(cmd, collector); err != nil {
		return err
	}

	return runErr
}
