package discovery

import (
	"errors"
	"fmt"
)

// ErrMalformedResult marks a backend listing result whose shape is outside
// the five documented forms. This is a backend contract violation: the boot
// path must fail loudly rather than read it as "no peers found".
var ErrMalformedResult = errors.New("malformed discovery result")

// Normalize maps a raw backend listing result into canonical form:
//
//	bare node list                  -> {nodes, disc}
//	(node list, node type)          -> {nodes, nodeType}
//	ok-wrapped bare node list       -> {nodes, disc}
//	ok-wrapped (node list, type)    -> {nodes, nodeType}
//	error(reason)                   -> error carrying reason verbatim
//
// Any other shape returns an error wrapping ErrMalformedResult.
func Normalize(raw RawResult) (Result, error) {
	switch raw.Kind {
	case RawNodes, RawOkNodes:
		return Result{Nodes: raw.Nodes, NodeType: NodeTypeDisc}, nil
	case RawNodesWithType, RawOkNodesWithType:
		return Result{Nodes: raw.Nodes, NodeType: raw.NodeType}, nil
	case RawError:
		return Result{}, errors.New(raw.Reason)
	default:
		return Result{}, fmt.Errorf("%w: unrecognized kind %d", ErrMalformedResult, raw.Kind)
	}
}
