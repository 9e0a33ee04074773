package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

// KubeconfigLoader resolves kubeconfig contexts for kube:// targets.
// It is safe for concurrent use; the merged file is read once.
type KubeconfigLoader struct {
	paths []string

	mu     sync.Mutex
	loaded *api.Config
}

// NewKubeconfigLoader picks kubeconfig files in priority order:
// the explicit path (--kubeconfig), then every entry of $KUBECONFIG,
// then ~/.kube/config.
func NewKubeconfigLoader(explicitPath string) *KubeconfigLoader {
	if explicitPath != "" {
		return &KubeconfigLoader{paths: expandPaths([]string{explicitPath})}
	}

	if env := os.Getenv(clientcmd.RecommendedConfigPathEnvVar); env != "" {
		if paths := expandPaths(filepath.SplitList(env)); len(paths) > 0 {
			return &KubeconfigLoader{paths: paths}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		return &KubeconfigLoader{paths: []string{filepath.Join(home, ".kube", "config")}}
	}

	return &KubeconfigLoader{}
}

// Paths returns the kubeconfig files in precedence order
func (l *KubeconfigLoader) Paths() []string {
	return append([]string(nil), l.paths...)
}

// Load returns the merged kubeconfig, reading it on first use
func (l *KubeconfigLoader) Load() (*api.Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded != nil {
		return l.loaded, nil
	}
	if len(l.paths) == 0 {
		return nil, fmt.Errorf("no kubeconfig paths available")
	}

	cfg, err := l.rules().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if cfg == nil || len(cfg.Contexts) == 0 {
		return nil, fmt.Errorf("kubeconfig %s defines no contexts", strings.Join(l.paths, string(filepath.ListSeparator)))
	}

	l.loaded = cfg
	return cfg, nil
}

// Contexts returns every context name, sorted
func (l *KubeconfigLoader) Contexts() ([]string, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// CurrentContext returns the kubeconfig's current-context
func (l *KubeconfigLoader) CurrentContext() (string, error) {
	cfg, err := l.Load()
	if err != nil {
		return "", err
	}
	return cfg.CurrentContext, nil
}

// Server returns the API server URL behind contextName
func (l *KubeconfigLoader) Server(contextName string) (string, error) {
	cfg, err := l.Load()
	if err != nil {
		return "", err
	}

	kctx, ok := cfg.Contexts[contextName]
	if !ok || kctx == nil {
		return "", fmt.Errorf("context %q not found in kubeconfig", contextName)
	}
	cluster := cfg.Clusters[kctx.Cluster]
	if cluster == nil {
		return "", fmt.Errorf("cluster %q not found for context %q", kctx.Cluster, contextName)
	}

	return cluster.Server, nil
}

// RESTConfig builds a client config for contextName. An empty name uses
// the current context.
func (l *KubeconfigLoader) RESTConfig(contextName string) (*rest.Config, error) {
	if len(l.paths) == 0 {
		return nil, fmt.Errorf("no kubeconfig paths available")
	}

	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(l.rules(), overrides)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build client config for context %q: %w", contextName, err)
	}

	return restConfig, nil
}

func (l *KubeconfigLoader) rules() *clientcmd.ClientConfigLoadingRules {
	return &clientcmd.ClientConfigLoadingRules{Precedence: l.paths}
}

func expandPaths(raw []string) []string {
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if expanded, err := expandPath(p); err == nil {
			paths = append(paths, expanded)
		}
	}
	return paths
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Clean(path), nil
}
