// Package metrics records probe and shutdown activity as Prometheus metrics.
//
// A Collector implements executor.Observer, so it can be attached to a pool
// with executor.WithObserver or to a Runner. Metrics live in a private
// registry and are written in the Prometheus text format on demand.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/util"
)

const namespace = "pingpool"

// Probe outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Collector exposes executor activity as Prometheus metrics
type Collector struct {
	registry *prometheus.Registry

	started   *prometheus.CounterVec
	finished  *prometheus.CounterVec
	inFlight  prometheus.Gauge
	duration  *prometheus.HistogramVec
	discarded prometheus.Counter
	shutdowns *prometheus.CounterVec
}

var _ executor.Observer = (*Collector)(nil)

// New creates a collector with its own registry
func New() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "started_total",
			Help:      "Total number of probes started",
		}, []string{"scheme"}),

		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "finished_total",
			Help:      "Total number of probes finished",
		}, []string{"scheme", "outcome"}), // outcome: success, failure, error

		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "in_flight",
			Help:      "Number of probes currently running",
		}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "duration_seconds",
			Help:      "Probe latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"scheme"}),

		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "discarded_total",
			Help:      "Total number of queued items discarded by a forced shutdown",
		}),

		shutdowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "shutdowns_total",
			Help:      "Total number of pool shutdowns by outcome",
		}, []string{"outcome"}), // outcome: graceful, forced, incomplete
	}

	for _, col := range []prometheus.Collector{c.started, c.finished, c.inFlight, c.duration, c.discarded, c.shutdowns} {
		if err := c.registry.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return c, nil
}

// Registry returns the registry holding the collector's metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// TaskStarted implements executor.Observer
func (c *Collector) TaskStarted(id string) {
	c.started.WithLabelValues(schemeLabel(id)).Inc()
	c.inFlight.Inc()
}

// TaskFinished implements executor.Observer
func (c *Collector) TaskFinished(result executor.Result) {
	scheme := schemeLabel(result.ID)

	c.inFlight.Dec()
	c.finished.WithLabelValues(scheme, outcomeLabel(result)).Inc()
	c.duration.WithLabelValues(scheme).Observe(result.Duration.Seconds())
}

// TasksDiscarded implements executor.Observer
func (c *Collector) TasksDiscarded(n int) {
	c.discarded.Add(float64(n))
}

// ShutdownFinished implements executor.Observer
func (c *Collector) ShutdownFinished(outcome executor.ShutdownOutcome) {
	c.shutdowns.WithLabelValues(outcome.String()).Inc()
}

// WriteText gathers every metric and writes it in the Prometheus text format
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}

	return nil
}

func outcomeLabel(result executor.Result) string {
	switch {
	case result.Err != nil:
		return OutcomeError
	case result.Success:
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}

// schemeLabel keeps label cardinality bounded by the set of schemes
func schemeLabel(id string) string {
	if scheme := util.TargetScheme(id); scheme != "" {
		return scheme
	}
	return "none"
}
