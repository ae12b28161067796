package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/meridianmq/meridian/internal/config"
)

func testDiscoveryConfig() *config.DiscoveryConfig {
	return &config.DiscoveryConfig{
		Backend:  BackendClassic,
		NodeType: config.NodeTypeDisc,
		NodeName: "meridian@host1",
	}
}

func TestNewBackend_BuiltinsResolve(t *testing.T) {
	backend, err := NewBackend(BackendClassic, testDiscoveryConfig())
	if err != nil {
		t.Fatalf("NewBackend(classic) error = %v", err)
	}
	if backend.SupportsRegistration() {
		t.Error("classic backend must not support registration")
	}
}

func TestNewBackend_UnknownName(t *testing.T) {
	_, err := NewBackend("consul", testDiscoveryConfig())
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestRegisteredBackends_ContainsBuiltins(t *testing.T) {
	names := RegisteredBackends()
	want := map[string]bool{BackendClassic: false, BackendDNS: false, BackendEtcd: false}
	for _, name := range names {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("built-in backend %q not registered", name)
		}
	}
}

func TestRegisterBackend_External(t *testing.T) {
	RegisterBackend("test-external", func(cfg *config.DiscoveryConfig) (Backend, error) {
		return &stubBackend{raw: NodesResult(nil)}, nil
	})

	backend, err := NewBackend("test-external", testDiscoveryConfig())
	if err != nil {
		t.Fatalf("NewBackend(test-external) error = %v", err)
	}
	raw := backend.ListNodes(context.Background())
	if raw.Kind != RawNodes {
		t.Errorf("expected RawNodes, got %v", raw.Kind)
	}
}

func TestRegisterBackend_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate registration")
		}
	}()
	RegisterBackend(BackendClassic, newClassicBackend)
}
