package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/rest"
	k8stesting "k8s.io/client-go/testing"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"

	"github.com/aryankumar/pingpool/internal/config"
	"github.com/aryankumar/pingpool/internal/util"
)

// staticSource returns a fixed REST config for every known context
type staticSource struct {
	missing map[string]bool
}

func (s staticSource) RESTConfig(contextName string) (*rest.Config, error) {
	if s.missing[contextName] {
		return nil, fmt.Errorf("context %q not found in kubeconfig", contextName)
	}
	return &rest.Config{Host: "https://" + contextName + ".example:6443"}, nil
}

// fakeFactory hands out one fake clientset and counts how often it is asked
type fakeFactory struct {
	client *fake.Clientset
	calls  atomic.Int32
}

func (f *fakeFactory) New(*rest.Config) (kubernetes.Interface, error) {
	f.calls.Add(1)
	return f.client, nil
}

func TestContextName(t *testing.T) {
	tests := []struct {
		target string
		want   string
		ok     bool
	}{
		{target: "kube://prod-us-east", want: "prod-us-east", ok: true},
		{target: "KUBE://staging/", want: "staging", ok: true},
		{target: "kube://", want: "", ok: true},
		{target: "http://prod", ok: false},
		{target: "kube:", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, ok := ContextName(tt.target)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ContextName(%q) = %q, %v; want %q, %v", tt.target, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKube_Probe(t *testing.T) {
	tests := []struct {
		name        string
		setupFake   func(*fake.Clientset)
		wantSuccess bool
	}{
		{
			name: "healthy api server",
			setupFake: func(c *fake.Clientset) {
				c.Discovery().(*fakediscovery.FakeDiscovery).FakedServerVersion = &version.Info{
					Major:      "1",
					Minor:      "31",
					GitVersion: "v1.31.3",
				}
			},
			wantSuccess: true,
		},
		{
			name: "unreachable api server",
			setupFake: func(c *fake.Clientset) {
				c.Discovery().(*fakediscovery.FakeDiscovery).PrependReactor("get", "version",
					func(action k8stesting.Action) (bool, runtime.Object, error) {
						return true, nil, fmt.Errorf("connection refused")
					})
			},
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := fake.NewSimpleClientset()
			tt.setupFake(client)
			factory := &fakeFactory{client: client}

			k := NewKube(staticSource{}, factory.New, 0, quietLogger())
			result, err := k.Probe(context.Background(), "kube://prod")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantSuccess)
			}
			if result.ID != "kube://prod" {
				t.Errorf("ID = %q", result.ID)
			}
		})
	}
}

func TestKube_ReusesClients(t *testing.T) {
	factory := &fakeFactory{client: fake.NewSimpleClientset()}
	k := NewKube(staticSource{}, factory.New, 0, quietLogger())

	for _, target := range []string{"kube://a", "kube://a", "kube://b", "kube://a/"} {
		if _, err := k.Probe(context.Background(), target); err != nil {
			t.Fatalf("probe %s: %v", target, err)
		}
	}

	if got := factory.calls.Load(); got != 2 {
		t.Errorf("expected 2 clientsets, got %d", got)
	}
}

func TestKube_UnknownContext(t *testing.T) {
	factory := &fakeFactory{client: fake.NewSimpleClientset()}
	k := NewKube(staticSource{missing: map[string]bool{"gone": true}}, factory.New, 0, quietLogger())

	_, err := k.Probe(context.Background(), "kube://gone")
	if !errors.Is(err, util.ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}

	_, err = k.Probe(context.Background(), "http://not-kube")
	if !errors.Is(err, util.ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget for wrong scheme, got %v", err)
	}
}

func TestKube_ContextCancellation(t *testing.T) {
	client := fake.NewSimpleClientset()
	client.Discovery().(*fakediscovery.FakeDiscovery).PrependReactor("get", "version",
		func(action k8stesting.Action) (bool, runtime.Object, error) {
			time.Sleep(200 * time.Millisecond)
			return true, nil, nil
		})
	factory := &fakeFactory{client: client}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := NewKube(staticSource{}, factory.New, 0, quietLogger()).Probe(ctx, "kube://slow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Error("expected failure after cancellation")
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("probe should return on cancellation, took %s", elapsed)
	}
}

func TestKube_AgainstAPIServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"major":"1","minor":"31","gitVersion":"v1.31.3"}`))
	}))
	defer srv.Close()

	kubeconfig := api.Config{
		CurrentContext: "local",
		Clusters:       map[string]*api.Cluster{"local": {Server: srv.URL}},
		Contexts:       map[string]*api.Context{"local": {Cluster: "local", AuthInfo: "local"}},
		AuthInfos:      map[string]*api.AuthInfo{"local": {Token: "test-token"}},
	}
	path := filepath.Join(t.TempDir(), "config")
	if err := clientcmd.WriteToFile(kubeconfig, path); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}

	k := NewKube(config.NewKubeconfigLoader(path), nil, 2*time.Second, quietLogger())

	for _, target := range []string{"kube://local", "kube://"} {
		result, err := k.Probe(context.Background(), target)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", target, err)
		}
		if !result.Success {
			t.Errorf("%s: expected success", target)
		}
	}
}
