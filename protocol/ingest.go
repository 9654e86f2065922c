package protocol

import (
	"context"

	"github.com/gossipdag/tangled/bundle"
	"github.com/gossipdag/tangled/cache"
	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/internal/logs"
	"github.com/gossipdag/tangled/message"
	"github.com/gossipdag/tangled/peer"
	"github.com/gossipdag/tangled/sponge"
	"github.com/gossipdag/tangled/ternary"
	"github.com/sirupsen/logrus"
)

// TransactionBroadcastEvent pairs an inbound TransactionBroadcast with
// the endpoint it arrived from, so the ingest worker can exclude that
// peer when re-broadcasting and attribute log lines.
type TransactionBroadcastEvent struct {
	From      peer.EndpointID
	Broadcast *message.TransactionBroadcast
}

// IngestWorker decodes, hashes, weight-checks, and stores inbound
// transaction broadcasts.
type IngestWorker struct {
	protocol            *Protocol
	cache               *cache.TinyHashCache
	forwardedTails      *cache.TinyHashCache
	sponge              sponge.Sponge
	coordinatorAddress  hashpkg.Address
	milestoneValidation chan<- hashpkg.Hash
	log                 *logrus.Entry
}

// NewIngestWorker creates an IngestWorker bound to p. cacheSize bounds
// the front-door dedup cache; s is the sponge construction used to
// hash incoming transactions; coordinatorAddress and the implicit
// zero address are the two addresses that make a transaction a
// milestone candidate; milestoneValidation receives the tail hash of
// every such candidate bundle.
func NewIngestWorker(p *Protocol, cacheSize int, s sponge.Sponge, coordinatorAddress hashpkg.Address, milestoneValidation chan<- hashpkg.Hash) *IngestWorker {
	return &IngestWorker{
		protocol:            p,
		cache:               cache.New(cacheSize),
		forwardedTails:      cache.New(cacheSize),
		sponge:              s,
		coordinatorAddress:  coordinatorAddress,
		milestoneValidation: milestoneValidation,
		log:                 logs.Get(logs.SubsystemProtocol),
	}
}

// Run processes events until the channel closes or ctx is done.
func (w *IngestWorker) Run(ctx context.Context, events <-chan TransactionBroadcastEvent) {
	w.log.Info("ingest worker running")
	defer w.log.Info("ingest worker stopped")

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.process(ev)
		case <-ctx.Done():
			return
		}
	}
}

// process implements one pass of the ingest pipeline: dedup,
// uncompress, decode, hash, weight-check, store, then either forward
// the solidification signal for a requested hash or rebroadcast an
// unsolicited one, and finally check whether the stored transaction is
// a milestone candidate.
func (w *IngestWorker) process(ev TransactionBroadcastEvent) {
	if !w.cache.Insert(ev.Broadcast.Transaction) {
		w.log.Debug("data already received")
		return
	}

	uncompressed := message.UncompressTransactionBytes(ev.Broadcast.Transaction)
	trits, err := ternary.UnpackT5B1(uncompressed, bundle.TransactionTrits)
	if err != nil {
		w.log.Warnf("cannot decode T5B1 from received data: %s", err)
		return
	}

	tx, err := bundle.FromTrits(trits)
	if err != nil {
		w.log.Warnf("cannot build transaction from received data: %s", err)
		return
	}

	digest, err := w.sponge.Digest(trits)
	if err != nil {
		w.log.Warnf("cannot hash received transaction: %s", err)
		return
	}
	hash, err := hashpkg.NewHashFromSlice(ternary.PackT5B1(digest))
	if err != nil {
		w.log.Warnf("cannot pack transaction hash: %s", err)
		return
	}

	if hash.Weight() < int(w.protocol.Config.MinWeightMagnitude) {
		w.log.Debugf("insufficient weight magnitude: %d", hash.Weight())
		return
	}

	stored, inserted := w.protocol.Tangle.InsertTransaction(tx, hash)
	if !inserted {
		w.log.Debugf("transaction %s already present in the tangle", hash)
		return
	}

	if !w.protocol.Tangle.IsSynced() && w.protocol.RequestedIsEmpty() {
		w.protocol.TriggerMilestoneSolidification()
	}

	if entry, ok := w.protocol.TakeRequested(hash); ok {
		w.protocol.TriggerTransactionSolidification(hash, entry.Index)
	} else {
		except := ev.From
		w.protocol.BroadcastTransactionBroadcast(&except, ev.Broadcast)
	}

	w.checkMilestoneCandidate(stored, hash)
}

// checkMilestoneCandidate forwards tail to milestone validation when
// tx was issued from the coordinator address or the implicit zero
// address, walking the trunk chain to find the tail of its bundle when
// tx itself isn't the tail. forwardedTails guards against sending the
// same tail twice: the tail's own arrival and a later sibling's
// chain-walk can both discover it independently.
func (w *IngestWorker) checkMilestoneCandidate(tx *bundle.Transaction, hash hashpkg.Hash) {
	var nullAddress hashpkg.Address
	if tx.Address() != w.coordinatorAddress && tx.Address() != nullAddress {
		return
	}

	tail, found := hash, tx.IsTail()
	if !found {
		chain := w.protocol.Tangle.TrunkWalkApprovers(hash, func(candidate *bundle.Transaction) bool {
			return candidate.Bundle() == tx.Bundle()
		})
		if len(chain) > 0 {
			last := chain[len(chain)-1]
			if last.Transaction.IsTail() {
				tail, found = last.Hash, true
			}
		}
	}

	if !found || w.milestoneValidation == nil {
		return
	}
	if !w.forwardedTails.Insert(tail[:]) {
		return
	}
	select {
	case w.milestoneValidation <- tail:
	default:
		w.log.Error("sending tail to milestone validation failed: channel full")
	}
}
