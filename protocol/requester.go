package protocol

import (
	"context"
	"math/rand"

	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/internal/logs"
	"github.com/gossipdag/tangled/message"
	"github.com/gossipdag/tangled/milestone"
	"github.com/sirupsen/logrus"
)

// TransactionRequester pops outstanding requests off the protocol's
// priority queue and asks a random handshaked peer for each one not
// already satisfied.
type TransactionRequester struct {
	protocol *Protocol
	rng      *rand.Rand
	log      *logrus.Entry
}

// NewTransactionRequester creates a TransactionRequester bound to p,
// seeded from seed (callers typically pass a time-derived seed; tests
// pass a fixed one for determinism).
func NewTransactionRequester(p *Protocol, seed int64) *TransactionRequester {
	return &TransactionRequester{
		protocol: p,
		rng:      rand.New(rand.NewSource(seed)),
		log:      logs.Get(logs.SubsystemRequest),
	}
}

// Request enqueues hash for requesting, recorded as wanted at index.
func (w *TransactionRequester) Request(hash hashpkg.Hash, index milestone.Index) {
	w.protocol.Queue.Insert(TransactionRequesterEntry{Hash: hash, Index: index})
}

// processRequest asks a randomly chosen handshaked peer for hash, and
// records it as requested so the ingest worker can match its arrival.
// It does nothing if no peer is currently handshaked.
func (w *TransactionRequester) processRequest(hash hashpkg.Hash, index milestone.Index) {
	p, ok := w.protocol.Peers.RandomHandshakedPeer(w.rng)
	if !ok {
		return
	}

	w.protocol.MarkRequested(hash, index)
	w.protocol.SendTransactionRequest(p.ID(), &message.TransactionRequest{Hash: hash})
}

// Run pops entries off the requester queue until ctx is done,
// re-requesting everything not already a solid entry point or already
// stored.
func (w *TransactionRequester) Run(ctx context.Context) {
	w.log.Info("transaction requester running")
	defer w.log.Info("transaction requester stopped")

	for {
		entry, err := w.protocol.Queue.Pop(ctx)
		if err != nil {
			return
		}
		if w.protocol.Tangle.IsSolidEntryPoint(entry.Hash) || w.protocol.Tangle.ContainsTransaction(entry.Hash) {
			continue
		}
		w.processRequest(entry.Hash, entry.Index)
	}
}
