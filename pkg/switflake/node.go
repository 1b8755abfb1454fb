package switflake

// NodeID is the 12-bit per-instance identifier embedded in every ID.
// It is validated once at construction and read-only afterwards.
type NodeID uint16

// NewNodeID validates id against the 12-bit field width.
func NewNodeID(id uint32) (NodeID, error) {
	if id > MaxNodeID {
		return 0, ErrNodeIDOutOfRange
	}
	return NodeID(id), nil
}
