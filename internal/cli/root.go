package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aryankumar/pingpool/internal/config"
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pingpool",
		Short: "pingpool - Concurrent reachability checks on a bounded worker pool",
		Long: `pingpool probes a batch of targets (http(s):// URLs, kube://<context>
API servers, sim:// simulated targets) on a bounded worker pool.

Results can be reported as each probe completes, all at once in submission
order, or probe by probe without concurrency. A streaming run can stop at
the first failure and shut the pool down in two phases.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd)
			return nil
		},
	}

	// Define persistent flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.pingpool.yaml)")
	flags.String("kubeconfig", "", "path to kubeconfig file for kube:// targets (default is $HOME/.kube/config)")
	flags.StringP("output", "o", "", "output format (text, table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output with debug logging")
	flags.Bool("no-color", false, "disable colored output")
	flags.Duration("timeout", config.DefaultTimeout, "timeout for each probe")
	flags.IntP("parallel", "p", config.DefaultParallel, "maximum number of concurrent probes")
	flags.Duration("grace-period", config.DefaultGracePeriod, "wait for each shutdown phase")
	flags.Bool("metrics", false, "print Prometheus metrics to stderr after the run")

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newPingCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newTargetsCmd())

	return rootCmd
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose, noColor))

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}

// newLogger builds a text handler logger, or JSON with noColor
func newLogger(w io.Writer, verbose, noColor bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
