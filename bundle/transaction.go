// Package bundle implements the Transaction and Bundle data types and
// the fixed trit-level transaction layout exchanged on the wire.
package bundle

import (
	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/ternary"
	"github.com/pkg/errors"
)

// Trit-field widths of the fixed 8019-trit transaction layout.
const (
	addressTrits              = 243
	valueTrits                = 81
	obsoleteTagTrits          = 81
	timestampTrits            = 27
	currentIndexTrits         = 27
	lastIndexTrits            = 27
	bundleHashTrits           = 243
	trunkHashTrits            = 243
	branchHashTrits           = 243
	tagTrits                  = 81
	attachmentTimestampTrits  = 27
	attachmentLowerBoundTrits = 27
	attachmentUpperBoundTrits = 27
	nonceTrits                = 81
	signatureFragmentTrits    = 6561

	// TransactionTrits is the total trit length of a transaction, and
	// PackedSize is its T5B1-packed byte length on the wire.
	TransactionTrits = addressTrits + valueTrits + obsoleteTagTrits + timestampTrits +
		currentIndexTrits + lastIndexTrits + bundleHashTrits + trunkHashTrits +
		branchHashTrits + tagTrits + attachmentTimestampTrits + attachmentLowerBoundTrits +
		attachmentUpperBoundTrits + nonceTrits + signatureFragmentTrits
	PackedSize = 1604
)

// Transaction is an immutable, decoded ternary record. Once constructed
// (via NewTransaction or FromTrits) its fields never change; only the
// Vertex wrapping it in the tangle carries mutable flags.
type Transaction struct {
	address              hashpkg.Address
	value                int64
	obsoleteTag          ternary.TritBuf
	timestamp            uint32
	currentIndex         uint32
	lastIndex            uint32
	bundleHash           hashpkg.Hash
	trunkHash            hashpkg.Hash
	branchHash           hashpkg.Hash
	tag                  ternary.TritBuf
	attachmentTimestamp  uint32
	attachmentLowerBound uint32
	attachmentUpperBound uint32
	nonce                ternary.TritBuf
	signatureFragment    ternary.TritBuf
}

// Fields is the set of values needed to build a Transaction. It exists
// so construction sites can name fields rather than pass a long
// positional argument list.
type Fields struct {
	Address              hashpkg.Address
	Value                int64
	ObsoleteTag          ternary.TritBuf
	Timestamp            uint32
	CurrentIndex         uint32
	LastIndex            uint32
	BundleHash           hashpkg.Hash
	TrunkHash            hashpkg.Hash
	BranchHash           hashpkg.Hash
	Tag                  ternary.TritBuf
	AttachmentTimestamp  uint32
	AttachmentLowerBound uint32
	AttachmentUpperBound uint32
	Nonce                ternary.TritBuf
	SignatureFragment    ternary.TritBuf
}

// NewTransaction builds an immutable Transaction from its fields.
func NewTransaction(f Fields) *Transaction {
	return &Transaction{
		address:              f.Address,
		value:                f.Value,
		obsoleteTag:          f.ObsoleteTag,
		timestamp:            f.Timestamp,
		currentIndex:         f.CurrentIndex,
		lastIndex:            f.LastIndex,
		bundleHash:           f.BundleHash,
		trunkHash:            f.TrunkHash,
		branchHash:           f.BranchHash,
		tag:                  f.Tag,
		attachmentTimestamp:  f.AttachmentTimestamp,
		attachmentLowerBound: f.AttachmentLowerBound,
		attachmentUpperBound: f.AttachmentUpperBound,
		nonce:                f.Nonce,
		signatureFragment:    f.SignatureFragment,
	}
}

func (t *Transaction) Address() hashpkg.Address     { return t.address }
func (t *Transaction) Value() int64                 { return t.value }
func (t *Transaction) Timestamp() uint32            { return t.timestamp }
func (t *Transaction) CurrentIndex() uint32         { return t.currentIndex }
func (t *Transaction) LastIndex() uint32            { return t.lastIndex }
func (t *Transaction) Bundle() hashpkg.Hash         { return t.bundleHash }
func (t *Transaction) Trunk() hashpkg.Hash          { return t.trunkHash }
func (t *Transaction) Branch() hashpkg.Hash         { return t.branchHash }
func (t *Transaction) AttachmentLowerBound() uint32 { return t.attachmentLowerBound }

// IsTail reports whether this transaction occupies bundle position 0.
func (t *Transaction) IsTail() bool {
	return t.currentIndex == 0
}

// ToTrits serializes the transaction into its fixed 8019-trit layout.
func (t *Transaction) ToTrits() ternary.TritBuf {
	out := ternary.NewTritBuf(TransactionTrits)
	offset := 0

	writeHashField := func(h hashpkg.Hash, trits int) {
		unpacked, err := ternary.UnpackT5B1(h[:], trits)
		if err != nil {
			// A Hash is always a valid T5B1 buffer; this would be a
			// programming error, not a data error.
			panic(err)
		}
		copy(out[offset:offset+trits], unpacked)
		offset += trits
	}
	writeIntField := func(value int64, trits int) {
		copy(out[offset:offset+trits], ternary.Int64ToTrits(value, trits))
		offset += trits
	}
	writeBuf := func(buf ternary.TritBuf, trits int) {
		n := trits
		if len(buf) < n {
			n = len(buf)
		}
		copy(out[offset:offset+n], buf[:n])
		offset += trits
	}

	writeHashField(hashpkg.Hash(t.address), addressTrits)
	writeIntField(t.value, valueTrits)
	writeBuf(t.obsoleteTag, obsoleteTagTrits)
	writeIntField(int64(t.timestamp), timestampTrits)
	writeIntField(int64(t.currentIndex), currentIndexTrits)
	writeIntField(int64(t.lastIndex), lastIndexTrits)
	writeHashField(t.bundleHash, bundleHashTrits)
	writeHashField(t.trunkHash, trunkHashTrits)
	writeHashField(t.branchHash, branchHashTrits)
	writeBuf(t.tag, tagTrits)
	writeIntField(int64(t.attachmentTimestamp), attachmentTimestampTrits)
	writeIntField(int64(t.attachmentLowerBound), attachmentLowerBoundTrits)
	writeIntField(int64(t.attachmentUpperBound), attachmentUpperBoundTrits)
	writeBuf(t.nonce, nonceTrits)
	writeBuf(t.signatureFragment, signatureFragmentTrits)

	return out
}

// FromTrits parses a Transaction from its fixed 8019-trit layout.
func FromTrits(trits ternary.TritBuf) (*Transaction, error) {
	if len(trits) != TransactionTrits {
		return nil, errors.Errorf("invalid transaction trit length: got %d, want %d", len(trits), TransactionTrits)
	}

	offset := 0
	readHashField := func(trits ternary.TritBuf, n int) (hashpkg.Hash, error) {
		packed := ternary.PackT5B1(trits[offset : offset+n])
		offset += n
		return hashpkg.NewHashFromSlice(packed)
	}
	readIntField := func(n int) int64 {
		v := ternary.TritsToInt64(trits[offset : offset+n])
		offset += n
		return v
	}
	readBuf := func(n int) ternary.TritBuf {
		buf := append(ternary.TritBuf(nil), trits[offset:offset+n]...)
		offset += n
		return buf
	}

	addressHash, err := readHashField(trits, addressTrits)
	if err != nil {
		return nil, errors.Wrap(err, "invalid address field")
	}
	value := readIntField(valueTrits)
	obsoleteTag := readBuf(obsoleteTagTrits)
	timestamp := readIntField(timestampTrits)
	currentIndex := readIntField(currentIndexTrits)
	lastIndex := readIntField(lastIndexTrits)
	bundleHash, err := readHashField(trits, bundleHashTrits)
	if err != nil {
		return nil, errors.Wrap(err, "invalid bundle field")
	}
	trunkHash, err := readHashField(trits, trunkHashTrits)
	if err != nil {
		return nil, errors.Wrap(err, "invalid trunk field")
	}
	branchHash, err := readHashField(trits, branchHashTrits)
	if err != nil {
		return nil, errors.Wrap(err, "invalid branch field")
	}
	tag := readBuf(tagTrits)
	attachmentTimestamp := readIntField(attachmentTimestampTrits)
	attachmentLowerBound := readIntField(attachmentLowerBoundTrits)
	attachmentUpperBound := readIntField(attachmentUpperBoundTrits)
	nonce := readBuf(nonceTrits)
	signatureFragment := readBuf(signatureFragmentTrits)

	return NewTransaction(Fields{
		Address:              hashpkg.Address(addressHash),
		Value:                value,
		ObsoleteTag:          obsoleteTag,
		Timestamp:            uint32(timestamp),
		CurrentIndex:         uint32(currentIndex),
		LastIndex:            uint32(lastIndex),
		BundleHash:           bundleHash,
		TrunkHash:            trunkHash,
		BranchHash:           branchHash,
		Tag:                  tag,
		AttachmentTimestamp:  uint32(attachmentTimestamp),
		AttachmentLowerBound: uint32(attachmentLowerBound),
		AttachmentUpperBound: uint32(attachmentUpperBound),
		Nonce:                nonce,
		SignatureFragment:    signatureFragment,
	}), nil
}
