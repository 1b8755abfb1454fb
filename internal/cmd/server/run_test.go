package serverrun

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	cfgpkg "github.com/rubberove/switflake/internal/config"
	pebblestore "github.com/rubberove/switflake/internal/storage/pebble"
)

func TestGetenvDefault(t *testing.T) {
	old := getenv
	t.Cleanup(func() { getenv = old })

	getenv = func(string) string { return "" }
	if got := getenvDefault("X", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	getenv = func(string) string { return "set" }
	if got := getenvDefault("X", "fallback"); got != "set" {
		t.Fatalf("expected env value, got %q", got)
	}
}

func TestDataDirFallback(t *testing.T) {
	opts := Options{}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.DataDir == "" {
		t.Fatalf("expected data dir after fallback")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping server startup in short mode")
	}

	cfg := cfgpkg.Default()
	cfg.NodeID = 1
	cfg.ClaimOwner = "run-test:1"
	opts := Options{
		DataDir:  filepath.Join(t.TempDir(), "switflake"),
		HTTPAddr: ":0",
		Fsync:    pebblestore.FsyncModeNever,
		Config:   cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := Run(ctx, opts)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
