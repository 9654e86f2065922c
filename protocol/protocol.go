package protocol

import (
	"sync"

	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/internal/config"
	"github.com/gossipdag/tangled/internal/logs"
	"github.com/gossipdag/tangled/internal/util/panics"
	"github.com/gossipdag/tangled/message"
	"github.com/gossipdag/tangled/milestone"
	"github.com/gossipdag/tangled/netadapter"
	"github.com/gossipdag/tangled/peer"
	"github.com/gossipdag/tangled/tangle"
	"github.com/sirupsen/logrus"
)

// RequestedEntry pairs a requested hash with the milestone index it
// was requested at, so the ingest worker can tell an expected arrival
// from an unsolicited broadcast.
type RequestedEntry struct {
	Hash  hashpkg.Hash
	Index milestone.Index
}

// Protocol is the process-wide singleton tying together configuration,
// the DAG store, peer manager, sender contexts, and the requested-hash
// bookkeeping shared between the requester and the ingest worker. It
// is wired as explicit struct fields rather than package-level
// globals, so a fresh singleton can be constructed per test.
type Protocol struct {
	Config  *config.Config
	Tangle  *tangle.Tangle
	Peers   *peer.Manager
	Network netadapter.Network
	Queue   *Queue

	// Metrics aggregates successful sends across every peer; each
	// peer's own counters live on its SenderContext.
	Metrics *peer.Metrics

	contextsMu sync.RWMutex
	contexts   map[peer.EndpointID]*SenderContext

	requestedMu sync.Mutex
	requested   map[hashpkg.Hash]RequestedEntry

	// MilestoneSolidification and TransactionSolidification are the
	// solidifier entry points the ingest worker calls after storing a
	// transaction. The solidifier walk itself runs over Tangle's
	// traversal API; these hooks let callers plug in whatever drives
	// that walk without the ingest worker depending on it directly.
	// Both are optional; a nil hook is a no-op.
	MilestoneSolidification   func()
	TransactionSolidification func(hashpkg.Hash, milestone.Index)

	spawn func(func())
	log   *logrus.Entry
}

// New assembles a Protocol singleton from its collaborators.
func New(cfg *config.Config, t *tangle.Tangle, peers *peer.Manager, network netadapter.Network) *Protocol {
	return &Protocol{
		Config:    cfg,
		Tangle:    t,
		Peers:     peers,
		Network:   network,
		Queue:     NewQueue(),
		Metrics:   &peer.Metrics{},
		contexts:  make(map[peer.EndpointID]*SenderContext),
		requested: make(map[hashpkg.Hash]RequestedEntry),
		spawn:     panics.GoroutineWrapperFunc(logs.Get(logs.SubsystemSender)),
		log:       logs.Get(logs.SubsystemProtocol),
	}
}

// InstallPeer creates and registers a SenderContext for a newly
// handshaked peer, starting one SenderWorker goroutine per message kind.
func (p *Protocol) InstallPeer(endpoint peer.EndpointID) *SenderContext {
	ctx := NewSenderContext()

	p.contextsMu.Lock()
	p.contexts[endpoint] = ctx
	p.contextsMu.Unlock()

	routes := []struct {
		kind  message.Kind
		route *Route
	}{
		{message.KindMilestoneRequest, ctx.MilestoneRequest},
		{message.KindTransactionBroadcast, ctx.TransactionBroadcast},
		{message.KindTransactionRequest, ctx.TransactionRequest},
		{message.KindHeartbeat, ctx.Heartbeat},
	}
	for _, r := range routes {
		worker := NewSenderWorker(p.Network, endpoint, r.kind, r.route, ctx.Metrics, p.Metrics)
		p.spawn(worker.Run)
	}
	return ctx
}

// RemovePeer shuts down and unregisters a disconnected peer's context.
func (p *Protocol) RemovePeer(endpoint peer.EndpointID) {
	p.contextsMu.Lock()
	ctx, ok := p.contexts[endpoint]
	delete(p.contexts, endpoint)
	p.contextsMu.Unlock()

	if ok {
		ctx.shutdown()
	}
}

func (p *Protocol) contextFor(endpoint peer.EndpointID) (*SenderContext, bool) {
	p.contextsMu.RLock()
	defer p.contextsMu.RUnlock()
	ctx, ok := p.contexts[endpoint]
	return ctx, ok
}

func (p *Protocol) enqueue(endpoint peer.EndpointID, m message.Message) {
	ctx, ok := p.contextFor(endpoint)
	if !ok {
		return
	}
	route := ctx.routeFor(m.ID())
	if route == nil {
		p.log.Warnf("no outbound route for message kind %#x", byte(m.ID()))
		return
	}
	if err := route.Enqueue(m); err != nil {
		p.log.Warnf("enqueue to %s failed: %s", endpoint, err)
	}
}

func (p *Protocol) broadcast(except *peer.EndpointID, m message.Message) {
	p.contextsMu.RLock()
	defer p.contextsMu.RUnlock()
	for endpoint, ctx := range p.contexts {
		if except != nil && endpoint == *except {
			continue
		}
		route := ctx.routeFor(m.ID())
		if route == nil {
			p.log.Warnf("no outbound route for message kind %#x", byte(m.ID()))
			continue
		}
		if err := route.Enqueue(m); err != nil {
			p.log.Warnf("broadcast enqueue to %s failed: %s", endpoint, err)
		}
	}
}

// SendMilestoneRequest enqueues m for endpoint.
func (p *Protocol) SendMilestoneRequest(endpoint peer.EndpointID, m *message.MilestoneRequest) {
	p.enqueue(endpoint, m)
}

// SendTransactionRequest enqueues m for endpoint.
func (p *Protocol) SendTransactionRequest(endpoint peer.EndpointID, m *message.TransactionRequest) {
	p.enqueue(endpoint, m)
}

// SendHeartbeat enqueues m for endpoint.
func (p *Protocol) SendHeartbeat(endpoint peer.EndpointID, m *message.Heartbeat) {
	p.enqueue(endpoint, m)
}

// SendTransactionBroadcast enqueues m for endpoint.
func (p *Protocol) SendTransactionBroadcast(endpoint peer.EndpointID, m *message.TransactionBroadcast) {
	p.enqueue(endpoint, m)
}

// BroadcastTransactionBroadcast enqueues m for every installed peer
// except the one named in except, if any.
func (p *Protocol) BroadcastTransactionBroadcast(except *peer.EndpointID, m *message.TransactionBroadcast) {
	p.broadcast(except, m)
}

// MarkRequested records that hash was requested at index, so the
// ingest worker can recognize its eventual arrival.
func (p *Protocol) MarkRequested(hash hashpkg.Hash, index milestone.Index) {
	p.requestedMu.Lock()
	p.requested[hash] = RequestedEntry{Hash: hash, Index: index}
	p.requestedMu.Unlock()
}

// TakeRequested removes and returns the requested entry for hash, if any.
func (p *Protocol) TakeRequested(hash hashpkg.Hash) (RequestedEntry, bool) {
	p.requestedMu.Lock()
	defer p.requestedMu.Unlock()
	entry, ok := p.requested[hash]
	if ok {
		delete(p.requested, hash)
	}
	return entry, ok
}

// RequestedIsEmpty reports whether no hash is currently outstanding.
func (p *Protocol) RequestedIsEmpty() bool {
	p.requestedMu.Lock()
	defer p.requestedMu.Unlock()
	return len(p.requested) == 0
}

// TriggerMilestoneSolidification invokes the installed milestone
// solidification hook, if any.
func (p *Protocol) TriggerMilestoneSolidification() {
	if p.MilestoneSolidification != nil {
		p.MilestoneSolidification()
	}
}

// TriggerTransactionSolidification invokes the installed transaction
// solidification hook, if any.
func (p *Protocol) TriggerTransactionSolidification(hash hashpkg.Hash, index milestone.Index) {
	if p.TransactionSolidification != nil {
		p.TransactionSolidification(hash, index)
	}
}
