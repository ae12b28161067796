package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridianmq/meridian/internal/config"
)

// classicBackend serves a static node list taken from configuration. It is
// the built-in default and supports discovery only: a fixed list has no
// directory to announce to.
type classicBackend struct {
	nodes    []NodeName
	nodeType NodeType
}

func newClassicBackend(cfg *config.DiscoveryConfig) (Backend, error) {
	var nodes []NodeName
	for _, entry := range strings.Split(cfg.ClusterNodes, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		nodes = append(nodes, AppendNodePrefix(cfg.NodeName, entry))
	}

	return &classicBackend{
		nodes:    nodes,
		nodeType: NodeType(cfg.NodeType),
	}, nil
}

// ListNodes returns the configured node list with the configured node type.
func (b *classicBackend) ListNodes(ctx context.Context) RawResult {
	return OkNodesWithTypeResult(b.nodes, b.nodeType)
}

// SupportsRegistration always reports false for the classic backend.
func (b *classicBackend) SupportsRegistration() bool {
	return false
}

func (b *classicBackend) Register(ctx context.Context) error {
	return fmt.Errorf("classic backend does not support registration")
}

func (b *classicBackend) Unregister(ctx context.Context) error {
	return fmt.Errorf("classic backend does not support registration")
}

func (b *classicBackend) PostRegistration(ctx context.Context) error {
	return nil
}
