package config

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

func TestNewKubeconfigLoader(t *testing.T) {
	tests := []struct {
		name          string
		explicitPath  string
		kubeconfigEnv string
		wantPaths     int
	}{
		{
			name:          "explicit path takes precedence",
			explicitPath:  "/path/to/kubeconfig",
			kubeconfigEnv: "/env/kubeconfig",
			wantPaths:     1,
		},
		{
			name:          "KUBECONFIG with single path",
			kubeconfigEnv: "/env/kubeconfig",
			wantPaths:     1,
		},
		{
			name:          "KUBECONFIG with multiple paths",
			kubeconfigEnv: strings.Join([]string{"/env/a", "/env/b", "/env/c"}, string(filepath.ListSeparator)),
			wantPaths:     3,
		},
		{
			name:          "KUBECONFIG with only separators falls back to default",
			kubeconfigEnv: string(filepath.ListSeparator),
			wantPaths:     1,
		},
		{
			name:      "default to ~/.kube/config",
			wantPaths: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KUBECONFIG", tt.kubeconfigEnv)

			loader := NewKubeconfigLoader(tt.explicitPath)

			if got := len(loader.Paths()); got != tt.wantPaths {
				t.Errorf("got %d paths, want %d: %v", got, tt.wantPaths, loader.Paths())
			}
		})
	}
}

func TestKubeconfigLoader_Load(t *testing.T) {
	loader := NewKubeconfigLoader(writeTestKubeconfig(t))

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load kubeconfig: %v", err)
	}
	if len(cfg.Contexts) != 2 {
		t.Errorf("got %d contexts, want 2", len(cfg.Contexts))
	}

	again, err := loader.Load()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if cfg != again {
		t.Error("expected cached config to be returned")
	}
}

func TestKubeconfigLoader_LoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		loader := NewKubeconfigLoader(filepath.Join(t.TempDir(), "absent"))
		if _, err := loader.Load(); err == nil {
			t.Error("expected error for a kubeconfig without contexts")
		}
	})

	t.Run("no paths", func(t *testing.T) {
		loader := &KubeconfigLoader{}
		if _, err := loader.Load(); err == nil {
			t.Error("expected error with no paths")
		}
		if _, err := loader.RESTConfig("any"); err == nil {
			t.Error("expected RESTConfig error with no paths")
		}
	})
}

func TestKubeconfigLoader_Contexts(t *testing.T) {
	loader := NewKubeconfigLoader(writeTestKubeconfig(t))

	names, err := loader.Contexts()
	if err != nil {
		t.Fatalf("Contexts failed: %v", err)
	}
	if want := []string{"test-context-1", "test-context-2"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Contexts() = %v, want %v", names, want)
	}

	current, err := loader.CurrentContext()
	if err != nil {
		t.Fatalf("CurrentContext failed: %v", err)
	}
	if current != "test-context-1" {
		t.Errorf("CurrentContext() = %q", current)
	}
}

func TestKubeconfigLoader_Server(t *testing.T) {
	loader := NewKubeconfigLoader(writeTestKubeconfig(t))

	tests := []struct {
		context string
		want    string
		wantErr bool
	}{
		{context: "test-context-1", want: "https://test-server-1:6443"},
		{context: "test-context-2", want: "https://test-server-2:6443"},
		{context: "non-existent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			got, err := loader.Server(tt.context)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Server(%q) error = %v, wantErr %v", tt.context, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Server(%q) = %q, want %q", tt.context, got, tt.want)
			}
		})
	}
}

func TestKubeconfigLoader_RESTConfig(t *testing.T) {
	loader := NewKubeconfigLoader(writeTestKubeconfig(t))

	restConfig, err := loader.RESTConfig("test-context-2")
	if err != nil {
		t.Fatalf("RESTConfig failed: %v", err)
	}
	if restConfig.Host != "https://test-server-2:6443" {
		t.Errorf("got host %q", restConfig.Host)
	}
	if restConfig.BearerToken != "test-token-2" {
		t.Errorf("got token %q", restConfig.BearerToken)
	}

	current, err := loader.RESTConfig("")
	if err != nil {
		t.Fatalf("RESTConfig for current context failed: %v", err)
	}
	if current.Host != "https://test-server-1:6443" {
		t.Errorf("current context host %q", current.Host)
	}

	if _, err := loader.RESTConfig("non-existent"); err == nil {
		t.Error("expected error for non-existent context")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("PINGPOOL_TEST_DIR", "/opt/kube")

	tests := []struct {
		name  string
		input string
		check func(string) bool
	}{
		{name: "tilde becomes absolute", input: "~/test/path", check: func(s string) bool {
			return filepath.IsAbs(s) && strings.HasSuffix(s, filepath.Join("test", "path"))
		}},
		{name: "environment variable", input: "$PINGPOOL_TEST_DIR/config", check: func(s string) bool {
			return s == filepath.Clean("/opt/kube/config")
		}},
		{name: "path is cleaned", input: "/absolute//path/", check: func(s string) bool {
			return s == filepath.Clean("/absolute/path")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(got) {
				t.Errorf("expandPath(%q) = %q", tt.input, got)
			}
		})
	}
}

func writeTestKubeconfig(t *testing.T) string {
	t.Helper()

	cfg := api.Config{
		CurrentContext: "test-context-1",
		Clusters: map[string]*api.Cluster{
			"test-cluster-1": {Server: "https://test-server-1:6443"},
			"test-cluster-2": {Server: "https://test-server-2:6443"},
		},
		Contexts: map[string]*api.Context{
			"test-context-1": {Cluster: "test-cluster-1", AuthInfo: "test-user-1"},
			"test-context-2": {Cluster: "test-cluster-2", AuthInfo: "test-user-2"},
		},
		AuthInfos: map[string]*api.AuthInfo{
			"test-user-1": {Token: "test-token-1"},
			"test-user-2": {Token: "test-token-2"},
		},
	}

	path := filepath.Join(t.TempDir(), "config")
	if err := clientcmd.WriteToFile(cfg, path); err != nil {
		t.Fatalf("failed to write test kubeconfig: %v", err)
	}
	return path
}
