package discovery

import "context"

// Backend is the contract every peer discovery backend implements. Backends
// form an open set with two capability levels: discovery-only, and
// discovery plus registration. The coordinator never assumes a backend is
// registration-capable; it gates all register/unregister calls on
// SupportsRegistration.
//
// A backend owns its network I/O, retries and timeouts. ListNodes returns
// one of the five raw shapes accepted by Normalize; the coordinator treats
// the call as a black box.
type Backend interface {
	// ListNodes returns the cluster members currently known to the backend.
	ListNodes(ctx context.Context) RawResult

	// SupportsRegistration reports whether the backend can announce this
	// node's presence. It must be side-effect free; the coordinator queries
	// it fresh on every call.
	SupportsRegistration() bool

	// Register announces this node to the backend's directory. Only
	// meaningful when SupportsRegistration reports true.
	Register(ctx context.Context) error

	// Unregister withdraws this node from the backend's directory. Only
	// meaningful when SupportsRegistration reports true.
	Unregister(ctx context.Context) error

	// PostRegistration runs the backend's side-effecting hook after a
	// successful Register call.
	PostRegistration(ctx context.Context) error
}
