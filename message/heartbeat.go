package message

import "encoding/binary"

// HeartbeatSize is the fixed body size of a Heartbeat: two big-endian
// u32 fields, the sender's solid and snapshot milestone indices.
const HeartbeatSize = 4 + 4

// Heartbeat announces a peer's current solid/snapshot milestone indices.
type Heartbeat struct {
	SolidMilestoneIndex    uint32
	SnapshotMilestoneIndex uint32
}

func (m *Heartbeat) ID() Kind  { return KindHeartbeat }
func (m *Heartbeat) Size() int { return HeartbeatSize }
func (m *Heartbeat) ToBytes() []byte {
	out := make([]byte, HeartbeatSize)
	binary.BigEndian.PutUint32(out[0:4], m.SolidMilestoneIndex)
	binary.BigEndian.PutUint32(out[4:8], m.SnapshotMilestoneIndex)
	return out
}

// HeartbeatFromBytes parses a Heartbeat body.
func HeartbeatFromBytes(payload []byte) (*Heartbeat, error) {
	if len(payload) != HeartbeatSize {
		return nil, &InvalidPayloadLengthError{Length: len(payload)}
	}
	return &Heartbeat{
		SolidMilestoneIndex:    binary.BigEndian.Uint32(payload[0:4]),
		SnapshotMilestoneIndex: binary.BigEndian.Uint32(payload[4:8]),
	}, nil
}

// HeartbeatFromFullBytes validates header against payload and parses a Heartbeat.
func HeartbeatFromFullBytes(header Header, payload []byte) (*Heartbeat, error) {
	return fromFullBytes(header, payload, HeartbeatFromBytes)
}
