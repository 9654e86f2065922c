// Package milestone defines milestone indices and the bundle-to-milestone
// builder that validates a coordinator bundle and turns it into a
// milestone record.
package milestone

import (
	"github.com/gossipdag/tangled/bundle"
	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/signing"
	"github.com/pkg/errors"
)

// Index identifies a milestone's position in the chain of coordinator
// checkpoints.
type Index uint32

// Milestone is a validated coordinator checkpoint: an index paired
// with the hash of the bundle tail that carries it.
type Milestone struct {
	Index Index
	Hash  hashpkg.Hash
}

// Builder validates a sequence of transactions making up a candidate
// milestone bundle and, on success, produces a Milestone. Hashes are
// assumed already verified by the ingest worker before transactions
// reach the builder; the builder only checks bundle completeness and
// the coordinator's signature.
type Builder struct {
	tailHash      hashpkg.Hash
	securityLevel int
	depth         int
	publicKey     signing.PublicKey
	transactions  []*bundle.Transaction
}

// NewBuilder constructs a Builder for the candidate milestone bundle
// whose tail is stored under tailHash. securityLevel is the number of
// signature fragments the coordinator splits its signature across, so
// a complete bundle holds the tail plus securityLevel trunk ancestors;
// depth is the depth of the coordinator's signature tree.
func NewBuilder(tailHash hashpkg.Hash, securityLevel, depth int, publicKey signing.PublicKey, transactions []*bundle.Transaction) *Builder {
	return &Builder{tailHash: tailHash, securityLevel: securityLevel, depth: depth, publicKey: publicKey, transactions: transactions}
}

// ErrIncompleteBundle indicates the milestone validator could not pull
// enough ancestor transactions to validate a candidate bundle; this
// is expected and silent while ancestors are still arriving.
var ErrIncompleteBundle = errors.New("incomplete bundle")

// ErrInvalidMilestone wraps a validation failure of a candidate bundle.
type ErrInvalidMilestone struct {
	Inner error
}

func (e *ErrInvalidMilestone) Error() string {
	return "invalid milestone: " + e.Inner.Error()
}

func (e *ErrInvalidMilestone) Unwrap() error { return e.Inner }

// Validate checks that the builder has enough transactions and that
// the coordinator's signature over the bundle verifies.
func (b *Builder) Validate() error {
	if len(b.transactions) < b.securityLevel+1 {
		return ErrIncompleteBundle
	}
	head := b.transactions[len(b.transactions)-1]
	sig := signatureFromHead(head)
	ok, err := b.publicKey.Verify(bundleSigningMessage(b.transactions), sig)
	if err != nil {
		return &ErrInvalidMilestone{Inner: err}
	}
	if !ok {
		return &ErrInvalidMilestone{Inner: errors.New("signature verification failed")}
	}
	return nil
}

// Build assembles the validated Milestone. Callers must call Validate
// first; Build does not re-verify.
func (b *Builder) Build() (*Milestone, error) {
	tail := b.transactions[0]
	if !tail.IsTail() {
		return nil, errors.New("first transaction is not a tail")
	}
	index := Index(trunkAttachmentIndex(b.transactions))
	return &Milestone{Index: index, Hash: b.tailHash}, nil
}

// signatureFromHead builds the recoverable signature handed to the
// verifier from the head transaction: the T5B1 encoding of the head's
// full trit layout, which ends with its signature-fragment field. The
// signature-fragment field is not cut out on its own; interpreting the
// bytes is left to the signing package's PublicKey implementation.
func signatureFromHead(head *bundle.Transaction) signing.RecoverableSignature {
	return rawSignature(head.ToTrits().Encode())
}

type rawSignature []byte

func (r rawSignature) Bytes() []byte { return r }

// bundleSigningMessage builds the message passed to the verifier: the
// concatenation of every transaction's full T5B1-encoded trit layout,
// in bundle order. No bundle-essence subset of the fields is selected.
func bundleSigningMessage(transactions []*bundle.Transaction) []byte {
	var out []byte
	for _, tx := range transactions {
		out = append(out, tx.ToTrits().Encode()...)
	}
	return out
}

// trunkAttachmentIndex derives the milestone index carried in the
// bundle, conventionally encoded in the tail transaction's tag/index
// fields by the coordinator. The concrete snapshot/coordinator layout
// is out of scope here, so the index is derived from the tail's
// attachment timestamp lower bound, which the coordinator increments
// once per milestone.
func trunkAttachmentIndex(transactions []*bundle.Transaction) uint32 {
	return transactions[0].AttachmentLowerBound()
}
