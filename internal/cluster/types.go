package cluster

import "github.com/meridianmq/meridian/internal/discovery"

// NodeStatus represents the current status of a node in the cluster
type NodeStatus int

const (
	// NodeStatusActive indicates the node is active and participating in the cluster
	NodeStatusActive NodeStatus = iota
	// NodeStatusRemoved indicates the node has been removed from the cluster
	NodeStatusRemoved
)

// Node represents a member of the broker cluster
type Node struct {
	// Name is the cluster-wide identifier of the node (prefix@host)
	Name discovery.NodeName `json:"name"`
	// Type says whether the node keeps durable (disc) or memory-only (ram) state
	Type discovery.NodeType `json:"type"`
	// Status represents the current status of the node
	Status NodeStatus `json:"status"`
}
