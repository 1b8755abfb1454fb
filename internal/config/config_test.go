package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.NodeID != 0 {
		t.Fatalf("expected default node id 0, got %d", cfg.NodeID)
	}
	if cfg.GenerateMaxBatch <= 0 {
		t.Fatalf("expected positive batch cap, got %d", cfg.GenerateMaxBatch)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "switflake.json")
	body := `{"nodeId": 17, "claimTakeover": true}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NodeID != 17 || !cfg.ClaimTakeover {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// Unspecified fields keep defaults.
	if cfg.GenerateMaxBatch != Default().GenerateMaxBatch {
		t.Fatalf("expected default batch cap, got %d", cfg.GenerateMaxBatch)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SWITFLAKE_NODE_ID", "99")
	t.Setenv("SWITFLAKE_CLAIM_OWNER", "tester:1")
	t.Setenv("SWITFLAKE_GENERATE_MAX_BATCH", "128")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.NodeID != 99 || cfg.ClaimOwner != "tester:1" || cfg.GenerateMaxBatch != 128 {
		t.Fatalf("env overlay not applied: %+v", cfg)
	}
}

func TestFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("SWITFLAKE_NODE_ID", "not-a-number")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.NodeID != 0 {
		t.Fatalf("invalid env value applied: %+v", cfg)
	}
}

func TestDeriveClaimOwner(t *testing.T) {
	cfg := Config{ClaimOwner: "explicit"}
	if cfg.DeriveClaimOwner() != "explicit" {
		t.Fatalf("explicit owner not honored")
	}
	derived := Config{}.DeriveClaimOwner()
	if !strings.Contains(derived, ":") {
		t.Fatalf("expected host:pid form, got %q", derived)
	}
}
