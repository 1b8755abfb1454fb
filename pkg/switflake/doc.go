// Package switflake generates compact, sortable, unique 64-bit identifiers
// across concurrent producers on a single node, without locks and without
// heap allocation on the generation path.
//
// # Format
//
// An identifier packs four fields, most- to least-significant:
//
//	timestamp 41 bits | node 12 bits | slot 3 bits | counter 8 bits
//
// The timestamp counts milliseconds since EpochMillis, so numeric order of
// identifiers follows generation time. Node is a static 12-bit instance id.
// Slot and counter together disambiguate identifiers minted within the same
// millisecond: each concurrently generating caller holds one of 8 exclusive
// slots and mints up to 256 identifiers per slot per millisecond.
//
// # Concurrency
//
// The only shared mutable state is an 8-bit slot occupancy mask updated by
// single atomic instructions. Sequencing state is owned exclusively by the
// slot holder, so generation never contends on a shared counter and no
// caller can be starved by another. The one blocking point is waiting out
// the current millisecond after a slot's 256-ID budget is spent.
//
// Usage
//
//	g, err := switflake.New(42)
//	s, err := g.Acquire()
//	defer s.Release()
//	id, err := s.Next()
//	fields := switflake.Decode(id)
package switflake
