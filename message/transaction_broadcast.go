package message

// TransactionBroadcastMinSize and TransactionBroadcastMaxSize bound
// the compressed transaction payload: the full uncompressed
// transaction is 1604 bytes, but its all-zero signature tail is
// stripped before sending (see compress.go), leaving a payload as
// short as 292 bytes for a maximally-compressible transaction.
const (
	TransactionBroadcastMinSize = 292
	TransactionBroadcastMaxSize = 1604
)

// TransactionBroadcast carries a compressed, T5B1-packed transaction.
type TransactionBroadcast struct {
	Transaction []byte
}

func (m *TransactionBroadcast) ID() Kind  { return KindTransactionBroadcast }
func (m *TransactionBroadcast) Size() int { return len(m.Transaction) }
func (m *TransactionBroadcast) ToBytes() []byte {
	out := make([]byte, len(m.Transaction))
	copy(out, m.Transaction)
	return out
}

// NewTransactionBroadcast copies transaction into a new TransactionBroadcast.
func NewTransactionBroadcast(transaction []byte) *TransactionBroadcast {
	cp := make([]byte, len(transaction))
	copy(cp, transaction)
	return &TransactionBroadcast{Transaction: cp}
}

// TransactionBroadcastFromBytes parses a TransactionBroadcast body.
// It fails unless len(payload) falls in [292, 1604].
func TransactionBroadcastFromBytes(payload []byte) (*TransactionBroadcast, error) {
	if !sizeRangeContains(TransactionBroadcastMinSize, TransactionBroadcastMaxSize+1, len(payload)) {
		return nil, &InvalidPayloadLengthError{Length: len(payload)}
	}
	return NewTransactionBroadcast(payload), nil
}

// TransactionBroadcastFromFullBytes validates header against payload and parses a TransactionBroadcast.
func TransactionBroadcastFromFullBytes(header Header, payload []byte) (*TransactionBroadcast, error) {
	return fromFullBytes(header, payload, TransactionBroadcastFromBytes)
}
