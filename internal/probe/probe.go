// Package probe provides the reachability checks the executor runs.
//
// A Mux dispatches each target to the probe registered for its URL scheme:
//
//   - http:// and https:// targets get a GET request (HTTP)
//   - kube://<context> targets query the API server version endpoint (Kube)
//   - sim://<name> targets sleep and succeed or fail on request (Sim)
//
// Every probe reports an unreachable target as Success=false with a nil
// error. Errors are reserved for targets that cannot be probed at all, such
// as a malformed URL or an unknown scheme.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/util"
)

// Mux routes targets to probes by scheme
type Mux struct {
	mu     sync.RWMutex
	probes map[string]executor.ProbeFunc
}

// NewMux creates an empty multiplexer
func NewMux() *Mux {
	return &Mux{probes: make(map[string]executor.ProbeFunc)}
}

// Handle registers probe for scheme, replacing any previous registration
func (m *Mux) Handle(scheme string, probe executor.ProbeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes[strings.ToLower(scheme)] = probe
}

// Schemes returns the registered schemes, sorted
func (m *Mux) Schemes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	schemes := make([]string, 0, len(m.probes))
	for s := range m.probes {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Supports reports whether a probe is registered for target's scheme
func (m *Mux) Supports(target string) bool {
	_, ok := m.lookup(target)
	return ok
}

// Probe runs the probe registered for target's scheme
func (m *Mux) Probe(ctx context.Context, target string) (executor.Result, error) {
	probe, ok := m.lookup(target)
	if !ok {
		scheme := util.TargetScheme(target)
		if scheme == "" {
			return executor.Result{ID: target}, fmt.Errorf("%w: %q has no scheme", util.ErrInvalidTarget, target)
		}
		return executor.Result{ID: target}, fmt.Errorf("%w: unsupported scheme %q (supported: %s)",
			util.ErrInvalidTarget, scheme, strings.Join(m.Schemes(), ", "))
	}
	return probe(ctx, target)
}

func (m *Mux) lookup(target string) (executor.ProbeFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	probe, ok := m.probes[util.TargetScheme(target)]
	return probe, ok
}

// WithTimeout bounds every call of probe by timeout. A non-positive timeout
// returns probe unchanged.
func WithTimeout(probe executor.ProbeFunc, timeout time.Duration) executor.ProbeFunc {
	if timeout <= 0 {
		return probe
	}
	return func(ctx context.Context, target string) (executor.Result, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return probe(ctx, target)
	}
}

// Options configures NewDefault
type Options struct {
	// Timeout bounds each probe
	Timeout time.Duration

	// Kubeconfig resolves kube:// contexts; nil leaves kube:// unregistered
	Kubeconfig RESTConfigSource

	Logger *slog.Logger
}

// NewDefault returns a Mux with http, https, sim and, when a kubeconfig
// source is given, kube probes registered
func NewDefault(opts Options) *Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := NewMux()

	httpProbe := NewHTTP(opts.Timeout, logger)
	m.Handle("http", httpProbe.Probe)
	m.Handle("https", httpProbe.Probe)
	m.Handle("sim", NewSim().Probe)

	if opts.Kubeconfig != nil {
		m.Handle("kube", NewKube(opts.Kubeconfig, nil, opts.Timeout, logger).Probe)
	}

	return m
}
