// Package nodestore persists node-ID claims so that two processes on the
// same machine cannot generate with the same node identity. Claims are JSON
// records keyed by node id in the local Pebble store; they carry no
// sequencing state.
package nodestore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pebblestore "github.com/rubberove/switflake/internal/storage/pebble"
	"github.com/cockroachdb/pebble"
)

// ErrNodeClaimed reports that another owner holds a live claim on the node id.
var ErrNodeClaimed = errors.New("nodestore: node id claimed by another owner")

// Claim records which process owns a node id.
type Claim struct {
	NodeID      uint32 `json:"nodeId"`
	Owner       string `json:"owner"`
	ClaimedAtMs int64  `json:"claimedAtMs"`
}

var claimPrefix = []byte("nodeclaim/")

// claimKey builds the key for a node id: prefix + 4-byte big-endian id.
func claimKey(nodeID uint32) []byte {
	k := make([]byte, 0, len(claimPrefix)+4)
	k = append(k, claimPrefix...)
	k = binary.BigEndian.AppendUint32(k, nodeID)
	return k
}

// Acquire claims nodeID for owner. Re-claiming with the same owner is
// idempotent and refreshes the claim timestamp. A claim held by a different
// owner fails with ErrNodeClaimed unless takeover is set, which is the
// recovery path after a crash that never released.
func Acquire(db *pebblestore.DB, nodeID uint32, owner string, takeover bool) (Claim, error) {
	key := claimKey(nodeID)
	if b, err := db.Get(key); err == nil {
		var existing Claim
		if err := json.Unmarshal(b, &existing); err == nil {
			if existing.Owner != owner && !takeover {
				return Claim{}, fmt.Errorf("%w: node %d held by %q since %d",
					ErrNodeClaimed, nodeID, existing.Owner, existing.ClaimedAtMs)
			}
		}
		// Corrupted records are rewritten below.
	} else if !errors.Is(err, pebblestore.ErrNotFound) {
		return Claim{}, err
	}

	c := Claim{NodeID: nodeID, Owner: owner, ClaimedAtMs: time.Now().UnixMilli()}
	b, err := json.Marshal(c)
	if err != nil {
		return Claim{}, err
	}
	if err := db.Set(key, b); err != nil {
		return Claim{}, err
	}
	return c, nil
}

// Release removes the claim if owner still holds it. Releasing a claim held
// by someone else is a no-op rather than an error, so a late shutdown after
// a takeover cannot evict the new owner.
func Release(db *pebblestore.DB, nodeID uint32, owner string) error {
	key := claimKey(nodeID)
	b, err := db.Get(key)
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return nil
		}
		return err
	}
	var existing Claim
	if err := json.Unmarshal(b, &existing); err == nil && existing.Owner != owner {
		return nil
	}
	return db.Delete(key)
}

// Get returns the claim for nodeID, if any.
func Get(db *pebblestore.DB, nodeID uint32) (Claim, bool, error) {
	b, err := db.Get(claimKey(nodeID))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Claim{}, false, nil
		}
		return Claim{}, false, err
	}
	var c Claim
	if err := json.Unmarshal(b, &c); err != nil {
		return Claim{}, false, err
	}
	return c, true, nil
}

// List returns all live claims in node-id order.
func List(db *pebblestore.DB) ([]Claim, error) {
	upper := append(append([]byte(nil), claimPrefix...), 0xff)
	it, err := db.NewIter(&pebble.IterOptions{LowerBound: claimPrefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []Claim
	for it.First(); it.Valid(); it.Next() {
		var c Claim
		if err := json.Unmarshal(it.Value(), &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, it.Error()
}
