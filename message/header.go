package message

import "encoding/binary"

// Kind identifies one of the five wire message kinds by its
// single-byte type ID.
type Kind byte

const (
	KindHandshake            Kind = 0x01
	KindMilestoneRequest     Kind = 0x02
	KindTransactionRequest   Kind = 0x03
	KindTransactionBroadcast Kind = 0x04
	KindHeartbeat            Kind = 0x06
)

// HeaderSize is the fixed length, in bytes, of a message header:
// 1 byte type ID followed by a big-endian u16 payload length.
const HeaderSize = 3

// Header is the framing that precedes every message body on the wire.
type Header struct {
	Type          Kind
	PayloadLength uint16
}

// HeaderFromBytes parses b into a Header. b must be exactly HeaderSize
// bytes long; any other length is rejected.
func HeaderFromBytes(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, &InvalidHeaderLengthError{Length: len(b)}
	}
	return Header{
		Type:          Kind(b[0]),
		PayloadLength: binary.BigEndian.Uint16(b[1:HeaderSize]),
	}, nil
}

// Bytes serializes the header into a HeaderSize-byte array.
func (h Header) Bytes() [HeaderSize]byte {
	var out [HeaderSize]byte
	out[0] = byte(h.Type)
	binary.BigEndian.PutUint16(out[1:HeaderSize], h.PayloadLength)
	return out
}
