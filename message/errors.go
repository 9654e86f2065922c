package message

import "fmt"

// InvalidHeaderLengthError signals a header shorter than HeaderSize.
type InvalidHeaderLengthError struct{ Length int }

func (e *InvalidHeaderLengthError) Error() string {
	return fmt.Sprintf("invalid header length: %d", e.Length)
}

// InvalidAdvertisedLengthBytesError signals a header whose length
// field could not be read as a u16. With HeaderSize fixed at 3 this
// cannot actually occur once the header itself was read successfully;
// kept for parity with the message format's full error surface.
type InvalidAdvertisedLengthBytesError struct{ Bytes [2]byte }

func (e *InvalidAdvertisedLengthBytesError) Error() string {
	return fmt.Sprintf("invalid advertised length bytes: %v", e.Bytes)
}

// InvalidAdvertisedLengthError signals that a header's advertised
// payload length doesn't match the actual payload length.
type InvalidAdvertisedLengthError struct {
	Advertised int
	Actual     int
}

func (e *InvalidAdvertisedLengthError) Error() string {
	return fmt.Sprintf("invalid advertised length: header says %d, got %d bytes", e.Advertised, e.Actual)
}

// InvalidPayloadLengthError signals a payload whose length falls
// outside a message kind's size_range().
type InvalidPayloadLengthError struct{ Length int }

func (e *InvalidPayloadLengthError) Error() string {
	return fmt.Sprintf("invalid payload length: %d", e.Length)
}

// UnknownMessageTypeError signals a header byte that names no known kind.
type UnknownMessageTypeError struct{ Type byte }

func (e *UnknownMessageTypeError) Error() string {
	return fmt.Sprintf("unknown message type: 0x%02x", e.Type)
}
