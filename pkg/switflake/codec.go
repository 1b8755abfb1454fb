package switflake

import "time"

// Bit layout of an identifier, most- to least-significant:
// timestamp 41 | node 12 | slot 3 | counter 8.
const (
	TimestampBits = 41
	NodeBits      = 12
	SlotBits      = 3
	CounterBits   = 8

	timestampShift = NodeBits + SlotBits + CounterBits
	nodeShift      = SlotBits + CounterBits
	slotShift      = CounterBits

	// MaxTimestamp is the largest encodable elapsed-milliseconds value,
	// roughly 69.7 years past the epoch.
	MaxTimestamp uint64 = 1<<TimestampBits - 1
	MaxNodeID    uint32 = 1<<NodeBits - 1
	MaxSlot      uint8  = 1<<SlotBits - 1
	MaxCounter   uint8  = 1<<CounterBits - 1

	// Slots is the number of concurrent sequencing slots per generator.
	Slots = 1 << SlotBits
)

// Encode packs the four fields into one 64-bit identifier. Fields are
// assumed in range; callers validate before encoding.
func Encode(timestamp uint64, node NodeID, slot uint8, counter uint8) uint64 {
	return timestamp<<timestampShift |
		uint64(node)<<nodeShift |
		uint64(slot)<<slotShift |
		uint64(counter)
}

// Decoded holds the unpacked fields of an identifier.
type Decoded struct {
	Timestamp uint64 `json:"timestamp"`
	NodeID    NodeID `json:"nodeId"`
	Slot      uint8  `json:"slot"`
	Counter   uint8  `json:"counter"`
}

// Decode unpacks id into its fields. It is total: any 64-bit input decodes
// to some field tuple, whether or not this system generated it, so callers
// must not infer provenance from a successful decode.
func Decode(id uint64) Decoded {
	return Decoded{
		Timestamp: id >> timestampShift & MaxTimestamp,
		NodeID:    NodeID(id >> nodeShift & uint64(MaxNodeID)),
		Slot:      uint8(id >> slotShift & uint64(MaxSlot)),
		Counter:   uint8(id & uint64(MaxCounter)),
	}
}

// Time converts the decoded timestamp back to wall-clock time.
func (d Decoded) Time() time.Time {
	return time.UnixMilli(EpochMillis + int64(d.Timestamp))
}
