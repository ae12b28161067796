package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// NodeTypeDisc and NodeTypeRAM are the two roles a cluster member can take:
// disc nodes keep durable state, ram nodes keep memory-only state.
const (
	NodeTypeDisc = "disc"
	NodeTypeRAM  = "ram"
)

// ServerConfig holds all configuration settings for the broker node
type ServerConfig struct {
	// Server settings
	Port int    `json:"port"`
	Host string `json:"host"`

	// NodeName is this node's cluster identifier (e.g. meridian@host1).
	NodeName string `json:"node_name"`

	// ShutdownTimeout bounds the graceful shutdown sequence.
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// Discovery holds the cluster bootstrap settings.
	Discovery DiscoveryConfig `json:"discovery"`
}

// DiscoveryConfig holds the peer discovery and registration settings.
// It is loaded once per boot and treated as immutable for the whole
// discovery/registration sequence.
type DiscoveryConfig struct {
	// Backend selects the peer discovery backend by name.
	Backend string `json:"backend"`

	// NodeType is the role this node (and, for backends that do not report
	// one, its discovered peers) takes in the cluster: disc or ram.
	NodeType string `json:"node_type"`

	// StartupDelayMin and StartupDelayMax bound the randomized pause applied
	// before registering, to stagger simultaneously booting nodes.
	StartupDelayMin time.Duration `json:"startup_delay_min"`
	StartupDelayMax time.Duration `json:"startup_delay_max"`

	// NodeName mirrors ServerConfig.NodeName for the backends and the
	// node-name prefixer.
	NodeName string `json:"node_name"`

	// ClusterNodes is the comma-separated static node list used by the
	// classic backend.
	ClusterNodes string `json:"cluster_nodes"`

	// DNSSeedHostname is the hostname the dns backend resolves to find peers.
	DNSSeedHostname string `json:"dns_seed_hostname"`

	// Etcd backend settings.
	EtcdEndpoints []string `json:"etcd_endpoints"`
	EtcdPrefix    string   `json:"etcd_prefix"`
	EtcdLeaseTTL  int64    `json:"etcd_lease_ttl"`
}

// DefaultConfig returns a ServerConfig with default values
func DefaultConfig() *ServerConfig {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	return &ServerConfig{
		Port:            7520,
		Host:            "0.0.0.0",
		NodeName:        "meridian@" + hostname,
		ShutdownTimeout: 30 * time.Second,
		Discovery: DiscoveryConfig{
			Backend:         "classic",
			NodeType:        NodeTypeDisc,
			StartupDelayMin: 5 * time.Second,
			StartupDelayMax: 60 * time.Second,
			NodeName:        "meridian@" + hostname,
			EtcdPrefix:      "/meridian/cluster/nodes/",
			EtcdLeaseTTL:    30,
		},
	}
}

// LoadConfig loads configuration from environment variables. Missing values
// fall back to defaults; values that are present but unparsable fail the
// boot path.
func LoadConfig() (*ServerConfig, error) {
	config := DefaultConfig()

	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT %q: %v", port, err)
		}
		config.Port = p
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Host = host
	}

	if nodeName := os.Getenv("NODE_NAME"); nodeName != "" {
		config.NodeName = nodeName
		config.Discovery.NodeName = nodeName
	}

	if backend := os.Getenv("DISCOVERY_BACKEND"); backend != "" {
		config.Discovery.Backend = backend
	}

	if nodeType := os.Getenv("NODE_TYPE"); nodeType != "" {
		config.Discovery.NodeType = nodeType
	}

	if min := os.Getenv("STARTUP_DELAY_MIN"); min != "" {
		seconds, err := strconv.Atoi(min)
		if err != nil {
			return nil, fmt.Errorf("invalid STARTUP_DELAY_MIN %q: %v", min, err)
		}
		config.Discovery.StartupDelayMin = time.Duration(seconds) * time.Second
	}

	if max := os.Getenv("STARTUP_DELAY_MAX"); max != "" {
		seconds, err := strconv.Atoi(max)
		if err != nil {
			return nil, fmt.Errorf("invalid STARTUP_DELAY_MAX %q: %v", max, err)
		}
		config.Discovery.StartupDelayMax = time.Duration(seconds) * time.Second
	}

	if clusterNodes := os.Getenv("CLUSTER_NODES"); clusterNodes != "" {
		config.Discovery.ClusterNodes = clusterNodes
	}

	if seed := os.Getenv("DNS_SEED_HOSTNAME"); seed != "" {
		config.Discovery.DNSSeedHostname = seed
	}

	if endpoints := os.Getenv("ETCD_ENDPOINTS"); endpoints != "" {
		config.Discovery.EtcdEndpoints = nil
		for _, p := range strings.Split(endpoints, ",") {
			if p = strings.TrimSpace(p); p != "" {
				config.Discovery.EtcdEndpoints = append(config.Discovery.EtcdEndpoints, p)
			}
		}
	}

	if prefix := os.Getenv("ETCD_PREFIX"); prefix != "" {
		config.Discovery.EtcdPrefix = prefix
	}

	if ttl := os.Getenv("ETCD_LEASE_TTL"); ttl != "" {
		seconds, err := strconv.ParseInt(ttl, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ETCD_LEASE_TTL %q: %v", ttl, err)
		}
		config.Discovery.EtcdLeaseTTL = seconds
	}

	if shutdownTimeout := os.Getenv("SHUTDOWN_TIMEOUT"); shutdownTimeout != "" {
		duration, err := time.ParseDuration(shutdownTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %v", shutdownTimeout, err)
		}
		config.ShutdownTimeout = duration
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.NodeName == "" {
		return fmt.Errorf("node name must not be empty")
	}

	return c.Discovery.Validate()
}

// Validate checks the discovery settings. The delay range must satisfy
// 0 <= min <= max; a misconfigured range fails boot instead of being
// silently reordered.
func (d *DiscoveryConfig) Validate() error {
	if d.Backend == "" {
		return fmt.Errorf("discovery backend must not be empty")
	}

	if d.NodeType != NodeTypeDisc && d.NodeType != NodeTypeRAM {
		return fmt.Errorf("invalid node type %q: must be %q or %q", d.NodeType, NodeTypeDisc, NodeTypeRAM)
	}

	if d.StartupDelayMin < 0 || d.StartupDelayMax < 0 {
		return fmt.Errorf("startup delay range must not be negative: min=%v max=%v", d.StartupDelayMin, d.StartupDelayMax)
	}

	if d.StartupDelayMin > d.StartupDelayMax {
		return fmt.Errorf("startup delay min %v exceeds max %v", d.StartupDelayMin, d.StartupDelayMax)
	}

	return nil
}
