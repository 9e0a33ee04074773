package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/util"
)

// KubeScheme prefixes Kubernetes targets: kube://<context>
const KubeScheme = "kube://"

// RESTConfigSource builds client configs for kubeconfig contexts.
// config.KubeconfigLoader satisfies it.
type RESTConfigSource interface {
	RESTConfig(contextName string) (*rest.Config, error)
}

// ClientFactory creates a clientset from a REST config
type ClientFactory func(*rest.Config) (kubernetes.Interface, error)

func defaultClientFactory(cfg *rest.Config) (kubernetes.Interface, error) {
	return kubernetes.NewForConfig(cfg)
}

// Kube probes a Kubernetes API server through the discovery version
// endpoint. Clientsets are built once per context and reused.
type Kube struct {
	source    RESTConfigSource
	newClient ClientFactory
	timeout   time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	clients map[string]kubernetes.Interface
}

// NewKube creates a Kubernetes probe. A nil factory uses
// kubernetes.NewForConfig; a positive timeout is applied to every client.
func NewKube(source RESTConfigSource, factory ClientFactory, timeout time.Duration, logger *slog.Logger) *Kube {
	if factory == nil {
		factory = defaultClientFactory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Kube{
		source:    source,
		newClient: factory,
		timeout:   timeout,
		logger:    logger,
		clients:   make(map[string]kubernetes.Interface),
	}
}

// ContextName extracts the kubeconfig context from a kube:// target.
// kube:// alone selects the current context.
func ContextName(target string) (string, bool) {
	if len(target) < len(KubeScheme) || !strings.EqualFold(target[:len(KubeScheme)], KubeScheme) {
		return "", false
	}
	return strings.Trim(target[len(KubeScheme):], "/"), true
}

// Probe implements executor.ProbeFunc
func (k *Kube) Probe(ctx context.Context, target string) (executor.Result, error) {
	contextName, ok := ContextName(target)
	if !ok {
		return executor.Result{ID: target}, fmt.Errorf("%w: %q is not a %s target", util.ErrInvalidTarget, target, KubeScheme)
	}

	client, err := k.client(contextName)
	if err != nil {
		return executor.Result{ID: target}, fmt.Errorf("%w: %w", util.ErrInvalidTarget, err)
	}

	start := time.Now()
	serverVersion, err := serverVersion(ctx, client)
	elapsed := time.Since(start)

	if err != nil {
		k.logger.Debug("kube probe failed", "target", target, "context", contextName, "error", err, "duration", elapsed)
		return executor.Result{ID: target, Success: false, Duration: elapsed}, nil
	}

	k.logger.Debug("kube probe completed", "target", target, "context", contextName, "server_version", serverVersion, "duration", elapsed)

	return executor.Result{ID: target, Success: true, Duration: elapsed}, nil
}

func (k *Kube) client(contextName string) (kubernetes.Interface, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if c, ok := k.clients[contextName]; ok {
		return c, nil
	}

	restConfig, err := k.source.RESTConfig(contextName)
	if err != nil {
		return nil, err
	}
	if k.timeout > 0 {
		restConfig = rest.CopyConfig(restConfig)
		restConfig.Timeout = k.timeout
	}

	c, err := k.newClient(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset for context %q: %w", contextName, err)
	}

	k.logger.Debug("created kubernetes client", "context", contextName, "server", restConfig.Host)
	k.clients[contextName] = c

	return c, nil
}

// serverVersion queries discovery without outliving ctx. The discovery
// call takes no context, so it runs on its own goroutine bounded by the
// client timeout.
func serverVersion(ctx context.Context, client kubernetes.Interface) (string, error) {
	type result struct {
		version string
		err     error
	}
	resultCh := make(chan result, 1)

	go func() {
		info, err := client.Discovery().ServerVersion()
		if err != nil {
			resultCh <- result{err: err}
			return
		}
		resultCh <- result{version: info.String()}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("server version: %w", ctx.Err())
	case res := <-resultCh:
		return res.version, res.err
	}
}
