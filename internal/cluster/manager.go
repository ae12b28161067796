package cluster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/meridianmq/meridian/internal/discovery"
	"github.com/meridianmq/meridian/internal/metrics"
	"go.uber.org/zap"
)

// ErrNodeNotFound is returned when a node name is not in the membership map.
var ErrNodeNotFound = errors.New("node not found")

// ClusterManager interface defines methods for managing cluster membership
type ClusterManager interface {
	JoinNode(ctx context.Context, node Node) error
	LeaveNode(ctx context.Context, name discovery.NodeName) error
	GetNode(ctx context.Context, name discovery.NodeName) (*Node, error)
	ListNodes(ctx context.Context) ([]Node, error)
}

// ClusterManagerImpl tracks cluster membership built from the discovery
// result and runs the boot/shutdown sides of cluster join. It is the
// orchestrator boundary that consumes the discovery coordinator.
type ClusterManagerImpl struct {
	mu          sync.RWMutex
	self        Node
	nodes       map[discovery.NodeName]Node
	order       []discovery.NodeName
	coordinator *discovery.Coordinator
	logger      *zap.Logger
	metrics     *metrics.PrometheusMetrics
}

// NewClusterManager creates a ClusterManagerImpl for the given local node
// and coordinator.
func NewClusterManager(self Node, coordinator *discovery.Coordinator, logger *zap.Logger) *ClusterManagerImpl {
	return &ClusterManagerImpl{
		self:        self,
		nodes:       make(map[discovery.NodeName]Node),
		coordinator: coordinator,
		logger:      logger,
		metrics:     metrics.GetMetrics(),
	}
}

// Bootstrap runs the boot side of cluster join: discover the current
// members, seed the membership map, then announce this node. A malformed
// backend result is fatal and propagates; an ordinary listing failure is
// logged and the node continues standalone, still attempting registration.
func (cm *ClusterManagerImpl) Bootstrap(ctx context.Context) error {
	result, err := cm.coordinator.DiscoverClusterNodes(ctx)
	switch {
	case errors.Is(err, discovery.ErrMalformedResult):
		return err
	case err != nil:
		cm.logger.Warn("peer discovery failed, forming standalone cluster",
			zap.Error(err),
		)
	default:
		for _, name := range result.Nodes {
			if name == cm.self.Name {
				continue
			}
			node := Node{Name: name, Type: result.NodeType, Status: NodeStatusActive}
			if err := cm.JoinNode(ctx, node); err != nil {
				cm.logger.Warn("failed to record discovered node",
					zap.String("node", string(name)),
					zap.Error(err),
				)
			}
		}
	}

	return cm.coordinator.MaybeRegister(ctx)
}

// Leave runs the shutdown side: withdraw this node's registration. Same
// fail-soft policy as registration, the error is always nil.
func (cm *ClusterManagerImpl) Leave(ctx context.Context) error {
	return cm.coordinator.MaybeUnregister(ctx)
}

// Self returns this node's own membership entry.
func (cm *ClusterManagerImpl) Self() Node {
	return cm.self
}

// JoinNode adds a node to the membership map.
func (cm *ClusterManagerImpl) JoinNode(ctx context.Context, node Node) error {
	if node.Name == "" {
		return fmt.Errorf("invalid node: name is required")
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.nodes[node.Name]; !exists {
		cm.order = append(cm.order, node.Name)
	}
	cm.nodes[node.Name] = node
	cm.metrics.SetClusterNodesTotal(len(cm.nodes) + 1) // plus self

	cm.logger.Info("node joined cluster",
		zap.String("node", string(node.Name)),
		zap.String("type", string(node.Type)),
	)
	return nil
}

// LeaveNode removes a node from the membership map.
func (cm *ClusterManagerImpl) LeaveNode(ctx context.Context, name discovery.NodeName) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.nodes[name]; !exists {
		return ErrNodeNotFound
	}

	delete(cm.nodes, name)
	for i, n := range cm.order {
		if n == name {
			cm.order = append(cm.order[:i], cm.order[i+1:]...)
			break
		}
	}
	cm.metrics.SetClusterNodesTotal(len(cm.nodes) + 1)

	cm.logger.Info("node left cluster", zap.String("node", string(name)))
	return nil
}

// GetNode returns a single node by name, self included.
func (cm *ClusterManagerImpl) GetNode(ctx context.Context, name discovery.NodeName) (*Node, error) {
	if name == cm.self.Name {
		self := cm.self
		return &self, nil
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	node, exists := cm.nodes[name]
	if !exists {
		return nil, ErrNodeNotFound
	}
	return &node, nil
}

// ListNodes returns all known members, self first, peers in the order they
// were discovered.
func (cm *ClusterManagerImpl) ListNodes(ctx context.Context) ([]Node, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	nodes := make([]Node, 0, len(cm.nodes)+1)
	nodes = append(nodes, cm.self)
	for _, name := range cm.order {
		nodes = append(nodes, cm.nodes[name])
	}
	return nodes, nil
}
