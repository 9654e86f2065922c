package message

import "encoding/binary"

// MilestoneRequestSize is the fixed body size of a MilestoneRequest: a
// single big-endian u32 milestone index.
const MilestoneRequestSize = 4

// MilestoneRequest asks a peer for the milestone at a given index.
type MilestoneRequest struct {
	Index uint32
}

func (m *MilestoneRequest) ID() Kind  { return KindMilestoneRequest }
func (m *MilestoneRequest) Size() int { return MilestoneRequestSize }
func (m *MilestoneRequest) ToBytes() []byte {
	out := make([]byte, MilestoneRequestSize)
	binary.BigEndian.PutUint32(out, m.Index)
	return out
}

// MilestoneRequestFromBytes parses a MilestoneRequest body.
func MilestoneRequestFromBytes(payload []byte) (*MilestoneRequest, error) {
	if len(payload) != MilestoneRequestSize {
		return nil, &InvalidPayloadLengthError{Length: len(payload)}
	}
	return &MilestoneRequest{Index: binary.BigEndian.Uint32(payload)}, nil
}

// MilestoneRequestFromFullBytes validates header against payload and parses a MilestoneRequest.
func MilestoneRequestFromFullBytes(header Header, payload []byte) (*MilestoneRequest, error) {
	return fromFullBytes(header, payload, MilestoneRequestFromBytes)
}
