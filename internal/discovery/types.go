package discovery

import "github.com/meridianmq/meridian/internal/config"

// NodeName identifies a cluster member, conventionally formatted as
// prefix@host (e.g. meridian@host1). It is opaque to this package except
// for the prefix handling in nodename.go.
type NodeName string

// NodeType says whether a cluster member keeps durable (disc) or
// memory-only (ram) state. The value is opaque data to the coordinator;
// it only gets carried through to the join sequence.
type NodeType string

const (
	// NodeTypeDisc marks a member with durable state.
	NodeTypeDisc NodeType = config.NodeTypeDisc
	// NodeTypeRAM marks a memory-only member.
	NodeTypeRAM NodeType = config.NodeTypeRAM
)

// RawKind tags the shape of a backend's listing result. Backends are an
// open set with loosely-typed return conventions; the coordinator accepts
// exactly these five shapes and treats anything else as a contract
// violation.
type RawKind int

const (
	// RawNodes is a bare node list.
	RawNodes RawKind = iota
	// RawNodesWithType is a node list paired with an explicit node type.
	RawNodesWithType
	// RawOkNodes is a success-wrapped bare node list.
	RawOkNodes
	// RawOkNodesWithType is a success-wrapped (node list, node type) pair.
	RawOkNodesWithType
	// RawError is a failure carrying the backend's reason.
	RawError
)

// RawResult is the value a backend's ListNodes returns, before
// normalization. Which fields are meaningful depends on Kind.
type RawResult struct {
	Kind     RawKind
	Nodes    []NodeName
	NodeType NodeType
	Reason   string
}

// NodesResult wraps a bare node list.
func NodesResult(nodes []NodeName) RawResult {
	return RawResult{Kind: RawNodes, Nodes: nodes}
}

// NodesWithTypeResult wraps a node list with an explicit node type.
func NodesWithTypeResult(nodes []NodeName, nodeType NodeType) RawResult {
	return RawResult{Kind: RawNodesWithType, Nodes: nodes, NodeType: nodeType}
}

// OkNodesResult wraps a success-tagged bare node list.
func OkNodesResult(nodes []NodeName) RawResult {
	return RawResult{Kind: RawOkNodes, Nodes: nodes}
}

// OkNodesWithTypeResult wraps a success-tagged (node list, node type) pair.
func OkNodesWithTypeResult(nodes []NodeName, nodeType NodeType) RawResult {
	return RawResult{Kind: RawOkNodesWithType, Nodes: nodes, NodeType: nodeType}
}

// ErrorResult wraps a backend failure reason.
func ErrorResult(reason string) RawResult {
	return RawResult{Kind: RawError, Reason: reason}
}

// Result is the canonical discovery outcome consumed by the join sequence.
// Nodes preserve the backend's insertion order; they are never re-sorted.
type Result struct {
	Nodes    []NodeName
	NodeType NodeType
}
