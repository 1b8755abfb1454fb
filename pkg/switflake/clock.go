package switflake

import "time"

// EpochMillis is the fixed reference point the 41-bit timestamp field counts
// from: 2024-01-01T00:00:00Z in Unix milliseconds. It is part of the format
// contract; changing it changes the meaning of every previously generated ID.
const EpochMillis int64 = 1704067200000

// Clock supplies milliseconds elapsed since EpochMillis. Implementations
// must be safe for concurrent use; deterministic fakes drive the
// time-dependent tests.
type Clock interface {
	NowMillis() (uint64, error)
}

// systemClock derives elapsed milliseconds from the wall clock.
type systemClock struct{}

func (systemClock) NowMillis() (uint64, error) {
	ms := time.Now().UnixMilli() - EpochMillis
	if ms < 0 {
		// Epoch in the future is treated as a clock regression.
		return 0, ErrClockBackwards
	}
	return uint64(ms), nil
}
