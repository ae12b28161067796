package discovery

import "strings"

const (
	// DefaultNodePrefix is used when the local node name carries no
	// separator at all.
	DefaultNodePrefix = "meridian"

	nameSeparator = "@"
)

// NodePrefix derives the prefix segment of the given node name: the part
// before the first @. A name with no separator yields DefaultNodePrefix.
func NodePrefix(self string) string {
	if prefix, _, found := strings.Cut(self, nameSeparator); found {
		return prefix
	}
	return DefaultNodePrefix
}

// AppendNodePrefix normalizes a discovered peer entry to this node's naming
// convention. Peers may arrive as bare hostnames or carrying a foreign
// prefix; any existing prefix is stripped and the local node's own prefix
// reattached. The operation is idempotent.
func AppendNodePrefix(self, value string) NodeName {
	prefix := NodePrefix(self)
	if _, host, found := strings.Cut(value, nameSeparator); found {
		return NodeName(prefix + nameSeparator + host)
	}
	return NodeName(prefix + nameSeparator + value)
}
