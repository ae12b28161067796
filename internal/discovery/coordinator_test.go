package discovery

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/meridianmq/meridian/internal/config"
	"go.uber.org/zap"
)

// stubBackend lets tests script every backend operation.
type stubBackend struct {
	raw             RawResult
	supports        bool
	registerErr     error
	unregisterErr   error
	postErr         error
	registerCalls   int
	unregisterCalls int
	postCalls       int
}

func (s *stubBackend) ListNodes(ctx context.Context) RawResult { return s.raw }

func (s *stubBackend) SupportsRegistration() bool { return s.supports }

func (s *stubBackend) Register(ctx context.Context) error {
	s.registerCalls++
	return s.registerErr
}

func (s *stubBackend) Unregister(ctx context.Context) error {
	s.unregisterCalls++
	return s.unregisterErr
}

func (s *stubBackend) PostRegistration(ctx context.Context) error {
	s.postCalls++
	return s.postErr
}

func newTestCoordinator(backend Backend) *Coordinator {
	cfg := &config.DiscoveryConfig{
		Backend:  "stub",
		NodeType: config.NodeTypeDisc,
		NodeName: "meridian@host1",
		// Zero max disables the startup delay so tests run instantly.
		StartupDelayMin: 0,
		StartupDelayMax: 0,
	}
	return NewCoordinator(cfg, backend, zap.NewNop())
}

func TestCoordinator_DiscoverClusterNodes(t *testing.T) {
	backend := &stubBackend{raw: NodesResult([]NodeName{"a", "b"})}
	c := newTestCoordinator(backend)

	result, err := c.DiscoverClusterNodes(context.Background())
	if err != nil {
		t.Fatalf("DiscoverClusterNodes() error = %v", err)
	}
	if !reflect.DeepEqual(result.Nodes, []NodeName{"a", "b"}) {
		t.Errorf("expected nodes [a b], got %v", result.Nodes)
	}
	if result.NodeType != NodeTypeDisc {
		t.Errorf("expected disc, got %s", result.NodeType)
	}
}

func TestCoordinator_DiscoverClusterNodes_BackendError(t *testing.T) {
	backend := &stubBackend{raw: ErrorResult("boom")}
	c := newTestCoordinator(backend)

	_, err := c.DiscoverClusterNodes(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "boom" {
		t.Errorf("expected error %q, got %q", "boom", err.Error())
	}
}

func TestCoordinator_DiscoverClusterNodes_MalformedShape(t *testing.T) {
	backend := &stubBackend{raw: RawResult{Kind: RawKind(42)}}
	c := newTestCoordinator(backend)

	_, err := c.DiscoverClusterNodes(context.Background())
	if !errors.Is(err, ErrMalformedResult) {
		t.Errorf("expected ErrMalformedResult, got %v", err)
	}
}

func TestCoordinator_MaybeRegister_SkipsWithoutCapability(t *testing.T) {
	backend := &stubBackend{supports: false}
	c := newTestCoordinator(backend)

	if err := c.MaybeRegister(context.Background()); err != nil {
		t.Fatalf("MaybeRegister() error = %v", err)
	}
	if backend.registerCalls != 0 {
		t.Errorf("register must not be called when unsupported, got %d calls", backend.registerCalls)
	}
	if backend.postCalls != 0 {
		t.Errorf("post-registration must not be called when unsupported, got %d calls", backend.postCalls)
	}
}

func TestCoordinator_MaybeRegister_RunsPostHookAfterSuccess(t *testing.T) {
	backend := &stubBackend{supports: true}
	c := newTestCoordinator(backend)

	if err := c.MaybeRegister(context.Background()); err != nil {
		t.Fatalf("MaybeRegister() error = %v", err)
	}
	if backend.registerCalls != 1 {
		t.Errorf("expected 1 register call, got %d", backend.registerCalls)
	}
	if backend.postCalls != 1 {
		t.Errorf("expected 1 post-registration call, got %d", backend.postCalls)
	}
}

func TestCoordinator_MaybeRegister_SwallowsBackendFailure(t *testing.T) {
	backend := &stubBackend{supports: true, registerErr: fmt.Errorf("boom")}
	c := newTestCoordinator(backend)

	if err := c.MaybeRegister(context.Background()); err != nil {
		t.Fatalf("a registration failure must not surface, got %v", err)
	}
	if backend.postCalls != 0 {
		t.Errorf("post-registration must not run after a failed register, got %d calls", backend.postCalls)
	}
}

func TestCoordinator_MaybeRegister_SwallowsPostHookFailure(t *testing.T) {
	backend := &stubBackend{supports: true, postErr: fmt.Errorf("hook boom")}
	c := newTestCoordinator(backend)

	if err := c.MaybeRegister(context.Background()); err != nil {
		t.Fatalf("a post-registration failure must not surface, got %v", err)
	}
}

func TestCoordinator_MaybeUnregister(t *testing.T) {
	tests := []struct {
		name      string
		backend   *stubBackend
		wantCalls int
	}{
		{
			name:      "skips without capability",
			backend:   &stubBackend{supports: false},
			wantCalls: 0,
		},
		{
			name:      "unregisters with capability",
			backend:   &stubBackend{supports: true},
			wantCalls: 1,
		},
		{
			name:      "swallows backend failure",
			backend:   &stubBackend{supports: true, unregisterErr: fmt.Errorf("boom")},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCoordinator(tt.backend)
			if err := c.MaybeUnregister(context.Background()); err != nil {
				t.Fatalf("MaybeUnregister() error = %v", err)
			}
			if tt.backend.unregisterCalls != tt.wantCalls {
				t.Errorf("expected %d unregister calls, got %d", tt.wantCalls, tt.backend.unregisterCalls)
			}
		})
	}
}
