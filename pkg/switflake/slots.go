package switflake

import (
	"math/bits"
	"sync/atomic"
)

const slotMaskAll = uint32(1)<<Slots - 1

// slotRegistry hands out the 8 sequencing slots. The occupancy bitmask is
// the only shared mutable state in the package; every mutation is a single
// atomic read-modify-write, so acquisition neither locks nor blocks.
type slotRegistry struct {
	used atomic.Uint32
}

// acquire claims the lowest clear bit. It fails immediately with
// ErrCapacityExceeded when all 8 bits are set; a CAS lost to a concurrent
// acquire or release simply re-reads the mask.
func (r *slotRegistry) acquire() (uint8, error) {
	for {
		cur := r.used.Load()
		if cur&slotMaskAll == slotMaskAll {
			return 0, ErrCapacityExceeded
		}
		slot := uint8(bits.TrailingZeros32(^cur))
		if r.used.CompareAndSwap(cur, cur|uint32(1)<<slot) {
			return slot, nil
		}
	}
}

// release clears the slot's bit. Releasing an unheld slot is a no-op.
func (r *slotRegistry) release(slot uint8) {
	// atomic.Uint32.And requires Go 1.23; this CAS loop is the equivalent
	// atomic AND for the Go 1.21 toolchain available here.
	for {
		cur := r.used.Load()
		if r.used.CompareAndSwap(cur, cur&^(uint32(1)<<slot)) {
			return
		}
	}
}

// inUse reports how many slots are currently held.
func (r *slotRegistry) inUse() int {
	return bits.OnesCount32(r.used.Load() & slotMaskAll)
}
