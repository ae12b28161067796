package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"

	"github.com/meridianmq/meridian/internal/config"
)

// dnsBackend discovers peers by resolving a seed hostname, the way a
// containerized deployment resolves a service name to all healthy
// instances. Discovery only; DNS has no registration surface.
type dnsBackend struct {
	self         string
	seedHostname string
	lookupHost   func(ctx context.Context, host string) ([]string, error)
}

func newDNSBackend(cfg *config.DiscoveryConfig) (Backend, error) {
	if cfg.DNSSeedHostname == "" {
		return nil, fmt.Errorf("dns backend requires DNS_SEED_HOSTNAME")
	}

	resolver := &net.Resolver{}
	return &dnsBackend{
		self:         cfg.NodeName,
		seedHostname: cfg.DNSSeedHostname,
		lookupHost:   resolver.LookupHost,
	}, nil
}

// ListNodes resolves the seed hostname and derives one node name per
// address, normalized to the local naming convention. Addresses are sorted
// so repeated lookups yield a stable order regardless of DNS rotation.
func (b *dnsBackend) ListNodes(ctx context.Context) RawResult {
	addrs, err := b.lookupHost(ctx, b.seedHostname)
	if err != nil {
		return ErrorResult(fmt.Sprintf("dns lookup of %q failed: %v", b.seedHostname, err))
	}

	sort.Strings(addrs)
	nodes := make([]NodeName, 0, len(addrs))
	for _, addr := range addrs {
		nodes = append(nodes, AppendNodePrefix(b.self, addr))
	}
	return NodesResult(nodes)
}

// SupportsRegistration always reports false for the dns backend.
func (b *dnsBackend) SupportsRegistration() bool {
	return false
}

func (b *dnsBackend) Register(ctx context.Context) error {
	return fmt.Errorf("dns backend does not support registration")
}

func (b *dnsBackend) Unregister(ctx context.Context) error {
	return fmt.Errorf("dns backend does not support registration")
}

func (b *dnsBackend) PostRegistration(ctx context.Context) error {
	return nil
}
