package switflake

import "errors"

// Failure modes surfaced by construction and generation. All of them are
// returned to the caller; none are retried or masked internally.
var (
	// ErrNodeIDOutOfRange reports a node id above the 12-bit maximum (4095).
	ErrNodeIDOutOfRange = errors.New("switflake: node id out of range (max 4095)")

	// ErrCapacityExceeded reports that all 8 generator slots are held by
	// live sessions. The caller may retry after another session releases.
	ErrCapacityExceeded = errors.New("switflake: all generator slots in use (max 8)")

	// ErrClockBackwards reports that the clock regressed below the last
	// timestamp observed on the caller's slot, or that the configured epoch
	// lies in the future. Reusing a timestamp could repeat an ID, so
	// generation fails instead.
	ErrClockBackwards = errors.New("switflake: clock moved backwards")

	// ErrClockOverflow reports that elapsed milliseconds since the epoch no
	// longer fit in the 41-bit timestamp field. The generator is permanently
	// exhausted at this point; it never truncates.
	ErrClockOverflow = errors.New("switflake: timestamp overflows 41 bits")

	// ErrSessionReleased reports a Next call on a session that was already
	// released.
	ErrSessionReleased = errors.New("switflake: session already released")
)
