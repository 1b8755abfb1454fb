package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// NodeID is the 12-bit node identity embedded in every generated ID.
	NodeID uint32 `json:"nodeId"`
	// ClaimOwner identifies this process in the persistent node claim
	// store. Empty means host:pid is derived at startup.
	ClaimOwner string `json:"claimOwner"`
	// ClaimTakeover allows the server to take over a stale claim left by a
	// crashed process with a different owner.
	ClaimTakeover bool `json:"claimTakeover"`
	// GenerateMaxBatch caps the count accepted by a single generate request.
	GenerateMaxBatch int `json:"generateMaxBatch"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		NodeID:           0,
		ClaimTakeover:    false,
		GenerateMaxBatch: 4096,
	}
}

// DeriveClaimOwner returns the configured claim owner, or host:pid.
func (c Config) DeriveClaimOwner() string {
	if c.ClaimOwner != "" {
		return c.ClaimOwner
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s:%d", host, os.Getpid())
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
