package switflake

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		ts      uint64
		node    NodeID
		slot    uint8
		counter uint8
	}{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{MaxTimestamp, NodeID(MaxNodeID), MaxSlot, MaxCounter},
		{1234567890, 4095, 0, 255},
		{MaxTimestamp, 0, 7, 0},
		{987654321012, 2048, 3, 129},
	}
	for _, c := range cases {
		id := Encode(c.ts, c.node, c.slot, c.counter)
		d := Decode(id)
		if d.Timestamp != c.ts || d.NodeID != c.node || d.Slot != c.slot || d.Counter != c.counter {
			t.Fatalf("round trip mismatch: in=(%d,%d,%d,%d) out=%+v", c.ts, c.node, c.slot, c.counter, d)
		}
	}
}

func TestEncodeOrderFollowsTimestamp(t *testing.T) {
	// A later timestamp must dominate every lower field.
	a := Encode(100, NodeID(MaxNodeID), MaxSlot, MaxCounter)
	b := Encode(101, 0, 0, 0)
	if a >= b {
		t.Fatalf("expected %d < %d", a, b)
	}
}

func TestDecodeIsIdempotent(t *testing.T) {
	id := Encode(55555, 77, 5, 201)
	first := Decode(id)
	second := Decode(id)
	if first != second {
		t.Fatalf("decode not idempotent: %+v vs %+v", first, second)
	}
}

func TestDecodeIsTotal(t *testing.T) {
	// Arbitrary 64-bit inputs decode to in-range fields.
	for _, id := range []uint64{0, 1, ^uint64(0), 0xdeadbeefcafebabe} {
		d := Decode(id)
		if uint32(d.NodeID) > MaxNodeID || d.Slot > MaxSlot {
			t.Fatalf("decoded out-of-range fields from %#x: %+v", id, d)
		}
	}
}

func TestDecodedTime(t *testing.T) {
	d := Decode(Encode(1500, 1, 0, 0))
	if got := d.Time().UnixMilli(); got != EpochMillis+1500 {
		t.Fatalf("expected %d, got %d", EpochMillis+1500, got)
	}
}
