package config

import (
	"os"
	"strconv"
)

// FromEnv overlays SWITFLAKE_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("SWITFLAKE_NODE_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.NodeID = uint32(n)
		}
	}
	if v := os.Getenv("SWITFLAKE_CLAIM_OWNER"); v != "" {
		cfg.ClaimOwner = v
	}
	if v := os.Getenv("SWITFLAKE_CLAIM_TAKEOVER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ClaimTakeover = b
		}
	}
	if v := os.Getenv("SWITFLAKE_GENERATE_MAX_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GenerateMaxBatch = n
		}
	}
}
