package bundle

import (
	"github.com/gossipdag/tangled/hashpkg"
	"github.com/pkg/errors"
)

// Bundle is a non-empty ordered sequence of transactions sharing a
// bundle hash; position 0 is the tail, position len-1 is the head.
type Bundle struct {
	transactions []*Transaction
}

// NewBundle builds a Bundle from an ordered, non-empty transaction
// sequence. It returns an error if the sequence is empty or the
// transactions don't share a single bundle hash.
func NewBundle(transactions []*Transaction) (*Bundle, error) {
	if len(transactions) == 0 {
		return nil, errors.New("cannot build an empty bundle")
	}
	bundleHash := transactions[0].Bundle()
	for _, tx := range transactions[1:] {
		if tx.Bundle() != bundleHash {
			return nil, errors.New("bundle transactions must share one bundle hash")
		}
	}
	return &Bundle{transactions: transactions}, nil
}

// Len returns the number of transactions in the bundle.
func (b *Bundle) Len() int { return len(b.transactions) }

// Get returns the transaction at index, or nil if out of range.
func (b *Bundle) Get(index int) *Transaction {
	if index < 0 || index >= len(b.transactions) {
		return nil
	}
	return b.transactions[index]
}

// Hash returns the bundle hash shared by every transaction in the bundle.
func (b *Bundle) Hash() hashpkg.Hash {
	return b.transactions[0].Bundle()
}

// Tail returns the transaction at position 0.
func (b *Bundle) Tail() *Transaction {
	return b.transactions[0]
}

// Head returns the transaction at the last position.
func (b *Bundle) Head() *Transaction {
	return b.transactions[len(b.transactions)-1]
}

// Trunk returns the head transaction's trunk hash, the bundle's
// external trunk reference.
func (b *Bundle) Trunk() hashpkg.Hash {
	return b.Head().Trunk()
}

// Branch returns the head transaction's branch hash, the bundle's
// external branch reference.
func (b *Bundle) Branch() hashpkg.Hash {
	return b.Head().Branch()
}

// LedgerDiff sums nonzero transaction values per address. Addresses
// whose net change is zero are absent from the result.
func (b *Bundle) LedgerDiff() map[hashpkg.Address]int64 {
	diff := make(map[hashpkg.Address]int64)
	for _, tx := range b.transactions {
		if tx.Value() != 0 {
			diff[tx.Address()] += tx.Value()
		}
	}
	for addr, v := range diff {
		if v == 0 {
			delete(diff, addr)
		}
	}
	return diff
}
