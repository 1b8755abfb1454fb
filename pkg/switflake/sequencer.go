package switflake

import "runtime"

// sequencer is the per-slot sequencing state. Slot exclusivity (enforced by
// slotRegistry) guarantees a single owner at a time, so the fields need no
// atomics and no locks; contention is eliminated structurally.
type sequencer struct {
	lastMillis uint64
	counter    uint8
}

// next produces the (timestamp, counter) pair for one ID. now re-reads the
// clock; when the current millisecond's 256-ID budget is spent, next polls
// it until the clock advances. That spin is bounded by wall-clock time
// (about one tick), touches no other slot's state, and is the only blocking
// point in the package.
func (s *sequencer) next(now func() (uint64, error)) (uint64, uint8, error) {
	ms, err := now()
	if err != nil {
		return 0, 0, err
	}
	for {
		switch {
		case ms > s.lastMillis:
			s.lastMillis = ms
			s.counter = 0
			return ms, 0, nil
		case ms < s.lastMillis:
			return 0, 0, ErrClockBackwards
		case s.counter < MaxCounter:
			s.counter++
			return ms, s.counter, nil
		default:
			// Budget for this millisecond exhausted; wait out the tick.
			for ms == s.lastMillis {
				runtime.Gosched()
				ms, err = now()
				if err != nil {
					return 0, 0, err
				}
			}
		}
	}
}
