package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

func writeKubeconfig(t *testing.T, path string, contexts ...string) {
	t.Helper()

	cfg := api.Config{
		Clusters:  make(map[string]*api.Cluster),
		AuthInfos: make(map[string]*api.AuthInfo),
		Contexts:  make(map[string]*api.Context),
	}
	for i, name := range contexts {
		cfg.Clusters[name] = &api.Cluster{
			Server:                fmt.Sprintf("https://%s.example.com:6443", name),
			InsecureSkipTLSVerify: true,
		}
		cfg.AuthInfos[name] = &api.AuthInfo{Token: fmt.Sprintf("token-%d", i)}
		cfg.Contexts[name] = &api.Context{Cluster: name, AuthInfo: name}
	}
	if len(contexts) > 0 {
		cfg.CurrentContext = contexts[0]
	}

	if err := clientcmd.WriteToFile(cfg, path); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}
}

func TestKubeconfigLoaderWithMergedConfigs(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "config1")
	second := filepath.Join(tmpDir, "config2")
	writeKubeconfig(t, first, "context-1")
	writeKubeconfig(t, second, "context-2")

	t.Setenv("KUBECONFIG", first+string(filepath.ListSeparator)+second)
	loader := NewKubeconfigLoader("")

	contexts, err := loader.Contexts()
	if err != nil {
		t.Fatalf("failed to get contexts: %v", err)
	}
	if len(contexts) != 2 || contexts[0] != "context-1" || contexts[1] != "context-2" {
		t.Errorf("expected [context-1 context-2], got %v", contexts)
	}

	// The first file sets the current context
	current, err := loader.CurrentContext()
	if err != nil || current != "context-1" {
		t.Errorf("CurrentContext() = %q, %v; want context-1", current, err)
	}

	server, err := loader.Server("context-2")
	if err != nil || server != "https://context-2.example.com:6443" {
		t.Errorf("Server(context-2) = %q, %v", server, err)
	}
}

func TestKubeconfigLoaderConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "config")
	names := make([]string, 10)
	for i := range names {
		names[i] = fmt.Sprintf("cluster-%d", i+1)
	}
	writeKubeconfig(t, path, names...)

	loader := NewKubeconfigLoader(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			contexts, err := loader.Contexts()
			if err != nil {
				t.Errorf("goroutine %d: failed to get contexts: %v", id, err)
				return
			}
			if len(contexts) != 10 {
				t.Errorf("goroutine %d: expected 10 contexts, got %d", id, len(contexts))
			}

			name := names[id%10]
			cfg, err := loader.RESTConfig(name)
			if err != nil {
				t.Errorf("goroutine %d: failed to build config for %s: %v", id, name, err)
				return
			}
			if cfg.BearerToken == "" {
				t.Errorf("goroutine %d: expected bearer token for %s", id, name)
			}
		}(i)
	}
	wg.Wait()
}
