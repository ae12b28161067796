package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var discoveryEnvVars = []string{
	"SERVER_PORT", "SERVER_HOST", "NODE_NAME",
	"DISCOVERY_BACKEND", "NODE_TYPE",
	"STARTUP_DELAY_MIN", "STARTUP_DELAY_MAX",
	"CLUSTER_NODES", "DNS_SEED_HOSTNAME",
	"ETCD_ENDPOINTS", "ETCD_PREFIX", "ETCD_LEASE_TTL",
	"SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range discoveryEnvVars {
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Discovery.Backend != "classic" {
		t.Errorf("expected default backend classic, got %q", cfg.Discovery.Backend)
	}
	if cfg.Discovery.NodeType != NodeTypeDisc {
		t.Errorf("expected default node type disc, got %q", cfg.Discovery.NodeType)
	}
	if cfg.Discovery.StartupDelayMin != 5*time.Second {
		t.Errorf("expected default delay min 5s, got %v", cfg.Discovery.StartupDelayMin)
	}
	if cfg.Discovery.StartupDelayMax != 60*time.Second {
		t.Errorf("expected default delay max 60s, got %v", cfg.Discovery.StartupDelayMax)
	}
	if !strings.HasPrefix(cfg.NodeName, "meridian@") {
		t.Errorf("expected default node name with meridian@ prefix, got %q", cfg.NodeName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("DISCOVERY_BACKEND", "etcd")
	os.Setenv("NODE_TYPE", "ram")
	os.Setenv("NODE_NAME", "meridian@broker1")
	os.Setenv("STARTUP_DELAY_MIN", "1")
	os.Setenv("STARTUP_DELAY_MAX", "10")
	os.Setenv("ETCD_ENDPOINTS", "etcd1:2379, etcd2:2379")
	defer clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Discovery.Backend != "etcd" {
		t.Errorf("expected backend etcd, got %q", cfg.Discovery.Backend)
	}
	if cfg.Discovery.NodeType != NodeTypeRAM {
		t.Errorf("expected node type ram, got %q", cfg.Discovery.NodeType)
	}
	if cfg.Discovery.NodeName != "meridian@broker1" {
		t.Errorf("expected discovery node name to mirror NODE_NAME, got %q", cfg.Discovery.NodeName)
	}
	if cfg.Discovery.StartupDelayMin != time.Second || cfg.Discovery.StartupDelayMax != 10*time.Second {
		t.Errorf("expected delay range 1s-10s, got %v-%v",
			cfg.Discovery.StartupDelayMin, cfg.Discovery.StartupDelayMax)
	}
	if len(cfg.Discovery.EtcdEndpoints) != 2 || cfg.Discovery.EtcdEndpoints[1] != "etcd2:2379" {
		t.Errorf("expected 2 trimmed etcd endpoints, got %v", cfg.Discovery.EtcdEndpoints)
	}
}

func TestLoadConfig_InvalidDelayFailsBoot(t *testing.T) {
	clearEnv(t)
	os.Setenv("STARTUP_DELAY_MAX", "not-a-number")
	defer clearEnv(t)

	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error for a non-numeric delay value")
	}
}

func TestValidate_DelayRange(t *testing.T) {
	tests := []struct {
		name    string
		min     time.Duration
		max     time.Duration
		wantErr bool
	}{
		{"valid range", 5 * time.Second, 60 * time.Second, false},
		{"zero max disables delay", 0, 0, false},
		{"min exceeds max", 10 * time.Second, 5 * time.Second, true},
		{"negative min", -1 * time.Second, 5 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Discovery.StartupDelayMin = tt.min
			cfg.Discovery.StartupDelayMax = tt.max

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NodeType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Discovery.NodeType = "tape"

	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unknown node type")
	}
}

func TestValidate_Port(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = -1

	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a negative port")
	}
}
