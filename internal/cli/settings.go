package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryankumar/pingpool/internal/config"
	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/metrics"
	"github.com/aryankumar/pingpool/internal/output"
	"github.com/aryankumar/pingpool/internal/probe"
	"github.com/aryankumar/pingpool/internal/uqueue"
	"github.com/aryankumar/pingpool/internal/util"
)

// flagBindings maps configuration keys to the flags that override them.
// Commands that lack a flag simply skip the binding.
var flagBindings = map[string]string{
	"defaults.parallel":     "parallel",
	"defaults.timeout":      "timeout",
	"defaults.gracePeriod":  "grace-period",
	"defaults.outputFormat": "output",
	"defaults.noColor":      "no-color",
	"defaults.mode":         "mode",
	"defaults.failFast":     "fail-fast",
	"faultInjection.count":  "corrupt-count",
	"faultInjection.offset": "corrupt-offset",
	"faultInjection.seed":   "seed",
}

// settings is the resolved configuration of one command run
type settings struct {
	cfg        *config.PingConfig
	format     output.Format
	kubeconfig *config.KubeconfigLoader
	metrics    bool
	logger     *slog.Logger
}

// loadSettings merges flags, environment and config file and validates the
// result
func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	manager := config.NewManager(cfgFile)

	for key, name := range flagBindings {
		if err := manager.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}

	cfg, err := manager.Load()
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("corrupt-index"); f != nil && f.Changed {
		index, _ := cmd.Flags().GetInt("corrupt-index")
		cfg.FaultInjection.Enabled = index >= 0
		cfg.FaultInjection.Index = index
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format, err := output.ParseFormat(cfg.Defaults.OutputFormat)
	if err != nil {
		return nil, err
	}

	kubeconfig, _ := cmd.Flags().GetString("kubeconfig")
	withMetrics, _ := cmd.Flags().GetBool("metrics")

	logger := slog.Default()
	if used := manager.Path(); used != "" {
		logger.Debug("loaded configuration", "file", used)
	}

	return &settings{
		cfg:        cfg,
		format:     format,
		kubeconfig: config.NewKubeconfigLoader(kubeconfig),
		metrics:    withMetrics,
		logger:     logger,
	}, nil
}

// noColor reports whether colored output is disabled
func (s *settings) noColor() bool {
	return s.cfg.Defaults.NoColor
}

// collector returns a metrics collector when --metrics is set, else nil
func (s *settings) collector() (*metrics.Collector, error) {
	if !s.metrics {
		return nil, nil
	}
	collector, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics collector: %w", err)
	}
	return collector, nil
}

// newRunner builds a Runner probing through the default scheme mux
func (s *settings) newRunner(collector *metrics.Collector) *executor.Runner {
	defaults := s.cfg.Defaults

	mux := probe.NewDefault(probe.Options{
		Timeout:    defaults.Timeout,
		Kubeconfig: s.kubeconfig,
		Logger:     s.logger,
	})

	runner := &executor.Runner{
		MaxConcurrency: defaults.Parallel,
		GracePeriod:    defaults.GracePeriod,
		Probe:          probe.WithTimeout(mux.Probe, defaults.Timeout),
		Logger:         s.logger,
		FailFast:       defaults.FailFast,
	}
	if collector != nil {
		runner.Observer = collector
	}

	return runner
}

// resolveTargets returns args, the configured targets or the built-in list,
// with equivalent targets dropped and fault injection applied.
// allContexts appends a kube:// target per kubeconfig context.
func (s *settings) resolveTargets(args []string, allContexts bool) ([]string, error) {
	queue := uqueue.NewFunc(util.SameTarget)

	for _, target := range s.cfg.ResolveTargets(args) {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if queue.Contains(target) {
			s.logger.Debug("dropping duplicate target", "target", target)
			continue
		}
		queue.Add(target)
	}

	if allContexts {
		contexts, err := s.kubeconfig.Contexts()
		if err != nil {
			return nil, fmt.Errorf("failed to list kubeconfig contexts: %w", err)
		}
		for _, name := range contexts {
			queue.Add(probe.KubeScheme + name)
		}
	}

	if queue.IsEmpty() {
		return nil, util.NewValidationError("targets", nil, "no targets to probe")
	}

	targets := queue.Items()
	if injector, ok := s.cfg.Injector(); ok {
		targets = injector.Apply(targets)
		if injector.Index >= 0 && injector.Index < len(targets) {
			s.logger.Info("fault injection enabled", "index", injector.Index, "target", targets[injector.Index])
		} else {
			s.logger.Warn("fault injection index outside batch", "index", injector.Index, "targets", len(targets))
		}
	}

	return targets, nil
}

// writeMetrics dumps the collector to the command's stderr
func writeMetrics(cmd *cobra.Command, collector *metrics.Collector) error {
	if collector == nil {
		return nil
	}
	if err := collector.WriteText(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
