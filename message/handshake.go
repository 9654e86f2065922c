package message

import (
	"encoding/binary"

	"github.com/gossipdag/tangled/hashpkg"
)

// HandshakeSize is the fixed body size of a Handshake message: a
// listening port, a timestamp, the coordinator address, the minimum
// weight magnitude, and a fixed-width supported-versions field.
const HandshakeSize = 2 + 8 + hashpkg.Size + 1 + 4

// Handshake is the first message exchanged with a newly connected
// peer; it negotiates protocol compatibility and declares this node's
// listening port and coordinator configuration.
type Handshake struct {
	Port               uint16
	Timestamp          uint64
	CoordinatorAddress hashpkg.Address
	MinWeightMagnitude byte
	SupportedVersions  [4]byte
}

func (h *Handshake) ID() Kind  { return KindHandshake }
func (h *Handshake) Size() int { return HandshakeSize }

func (h *Handshake) ToBytes() []byte {
	out := make([]byte, HandshakeSize)
	binary.BigEndian.PutUint16(out[0:2], h.Port)
	binary.BigEndian.PutUint64(out[2:10], h.Timestamp)
	copy(out[10:10+hashpkg.Size], h.CoordinatorAddress[:])
	out[10+hashpkg.Size] = h.MinWeightMagnitude
	copy(out[11+hashpkg.Size:], h.SupportedVersions[:])
	return out
}

// HandshakeFromBytes parses a Handshake body.
func HandshakeFromBytes(payload []byte) (*Handshake, error) {
	if len(payload) != HandshakeSize {
		return nil, &InvalidPayloadLengthError{Length: len(payload)}
	}
	addr, err := hashpkg.NewAddressFromSlice(payload[10 : 10+hashpkg.Size])
	if err != nil {
		return nil, err
	}
	h := &Handshake{
		Port:               binary.BigEndian.Uint16(payload[0:2]),
		Timestamp:          binary.BigEndian.Uint64(payload[2:10]),
		CoordinatorAddress: addr,
		MinWeightMagnitude: payload[10+hashpkg.Size],
	}
	copy(h.SupportedVersions[:], payload[11+hashpkg.Size:])
	return h, nil
}

// HandshakeFromFullBytes validates header against payload and parses a Handshake.
func HandshakeFromFullBytes(header Header, payload []byte) (*Handshake, error) {
	return fromFullBytes(header, payload, HandshakeFromBytes)
}
