package discovery

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/meridianmq/meridian/internal/config"
)

// Built-in backend names.
const (
	// BackendClassic reads a static node list from configuration. It is the
	// default when no backend is configured.
	BackendClassic = "classic"
	// BackendDNS resolves a seed hostname to find peers.
	BackendDNS = "dns"
	// BackendEtcd lists and registers nodes against an etcd cluster.
	BackendEtcd = "etcd"
)

// ErrUnknownBackend marks a backend name with no registered factory. It is
// a configuration error, surfaced at startup before the coordinator runs.
var ErrUnknownBackend = errors.New("unknown discovery backend")

// Factory builds a backend from the node's discovery configuration.
type Factory func(cfg *config.DiscoveryConfig) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

func init() {
	RegisterBackend(BackendClassic, newClassicBackend)
	RegisterBackend(BackendDNS, newDNSBackend)
	RegisterBackend(BackendEtcd, newEtcdBackend)
}

// RegisterBackend makes a backend available under the given name. Built-ins
// are registered at package init; external packages may add their own
// before the coordinator is constructed. Registering a duplicate name
// panics, since it can only be a programming error.
func RegisterBackend(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("discovery backend %q registered twice", name))
	}
	registry[name] = factory
}

// NewBackend resolves the named backend and builds it from configuration.
// An unresolvable name returns an error wrapping ErrUnknownBackend.
func NewBackend(name string, cfg *config.DiscoveryConfig) (Backend, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, RegisteredBackends())
	}
	return factory(cfg)
}

// RegisteredBackends returns the names of all registered backends, sorted.
func RegisteredBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
