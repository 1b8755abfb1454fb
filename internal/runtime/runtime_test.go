package runtime

import (
	"context"
	"errors"
	"testing"

	cfgpkg "github.com/rubberove/switflake/internal/config"
	"github.com/rubberove/switflake/internal/nodestore"
	pebblestore "github.com/rubberove/switflake/internal/storage/pebble"
)

func testOptions(dir string, nodeID uint32, owner string) Options {
	cfg := cfgpkg.Default()
	cfg.NodeID = nodeID
	cfg.ClaimOwner = owner
	return Options{DataDir: dir, Fsync: pebblestore.FsyncModeNever, Config: cfg}
}

func TestOpenClaimsAndGenerates(t *testing.T) {
	rt, err := Open(testOptions(t.TempDir(), 9, "t:1"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()

	if rt.Claim().NodeID != 9 || rt.Claim().Owner != "t:1" {
		t.Fatalf("unexpected claim: %+v", rt.Claim())
	}
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	id, err := rt.Generator().Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected nonzero id")
	}
}

func TestOpenRejectsInvalidNodeID(t *testing.T) {
	_, err := Open(testOptions(t.TempDir(), 4096, "t:1"))
	if err == nil {
		t.Fatalf("expected error for node id 4096")
	}
}

func TestCloseReleasesClaim(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(testOptions(dir, 2, "t:1"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// A different owner can claim after clean shutdown.
	rt2, err := Open(testOptions(dir, 2, "t:2"))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rt2.Close()
}

func TestOpenConflictWithoutTakeover(t *testing.T) {
	dir := t.TempDir()
	// Simulate a crashed process: a claim exists but its store is closed
	// without release.
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := nodestore.Acquire(db, 4, "crashed:1", false); err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	if _, err := Open(testOptions(dir, 4, "live:2")); !errors.Is(err, nodestore.ErrNodeClaimed) {
		t.Fatalf("expected ErrNodeClaimed, got %v", err)
	}

	opts := testOptions(dir, 4, "live:2")
	opts.Config.ClaimTakeover = true
	rt, err := Open(opts)
	if err != nil {
		t.Fatalf("takeover open: %v", err)
	}
	defer rt.Close()
}
