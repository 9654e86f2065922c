// Package hashpkg implements the fixed-size hash and address value types
// shared across the DAG store, the wire codec, and the gossip workers.
package hashpkg

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// Size is the length in bytes of a T5B1-packed 243-trit value.
const Size = 49

// Hash is a 243-trit value packed into 49 bytes (T5B1 encoding).
// Equality is bytewise on the packed form.
type Hash [Size]byte

// ZeroHash is the all-zero hash, used by tests and as a sentinel for
// "no hash yet".
var ZeroHash Hash

// NewHashFromSlice copies b into a Hash. b must be exactly Size bytes long.
func NewHashFromSlice(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, errors.Errorf("invalid hash length: got %d bytes, want %d", len(b), Size)
	}
	copy(h[:], b)
	return h, nil
}

// Weight returns the count of trailing zero bytes in the packed hash,
// used as a stand-in for "trailing zero trits" minimum-weight-magnitude
// accounting.
func (h Hash) Weight() int {
	weight := 0
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] != 0 {
			break
		}
		weight++
	}
	return weight
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a freshly allocated copy of the packed bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h[:])
	return out
}

// Address is a 243-trit value in the same packed representation as Hash,
// used as the key of a ledger diff.
type Address [Size]byte

// NewAddressFromSlice copies b into an Address. b must be exactly Size bytes long.
func NewAddressFromSlice(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, errors.Errorf("invalid address length: got %d bytes, want %d", len(b), Size)
	}
	copy(a[:], b)
	return a, nil
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}
