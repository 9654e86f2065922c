package message

import "github.com/gossipdag/tangled/hashpkg"

// TransactionRequestSize is the fixed body size of a TransactionRequest:
// a single T5B1-packed 243-trit hash.
const TransactionRequestSize = hashpkg.Size

// TransactionRequest asks a peer to re-send the transaction identified by Hash.
type TransactionRequest struct {
	Hash hashpkg.Hash
}

func (m *TransactionRequest) ID() Kind  { return KindTransactionRequest }
func (m *TransactionRequest) Size() int { return TransactionRequestSize }
func (m *TransactionRequest) ToBytes() []byte {
	return m.Hash.Bytes()
}

// TransactionRequestFromBytes parses a TransactionRequest body.
func TransactionRequestFromBytes(payload []byte) (*TransactionRequest, error) {
	if len(payload) != TransactionRequestSize {
		return nil, &InvalidPayloadLengthError{Length: len(payload)}
	}
	h, err := hashpkg.NewHashFromSlice(payload)
	if err != nil {
		return nil, err
	}
	return &TransactionRequest{Hash: h}, nil
}

// TransactionRequestFromFullBytes validates header against payload and parses a TransactionRequest.
func TransactionRequestFromFullBytes(header Header, payload []byte) (*TransactionRequest, error) {
	return fromFullBytes(header, payload, TransactionRequestFromBytes)
}
