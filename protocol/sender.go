package protocol

import (
	"github.com/gossipdag/tangled/internal/logs"
	"github.com/gossipdag/tangled/message"
	"github.com/gossipdag/tangled/netadapter"
	"github.com/gossipdag/tangled/peer"
	"github.com/sirupsen/logrus"
)

// SenderContext holds the four per-message-kind Routes installed for
// one handshaked peer, plus that peer's send counters. Contexts live
// in Protocol's process-wide endpoint-to-context mapping.
type SenderContext struct {
	MilestoneRequest     *Route
	TransactionBroadcast *Route
	TransactionRequest   *Route
	Heartbeat            *Route
	Metrics              *peer.Metrics
}

// NewSenderContext creates a SenderContext with four fresh Routes.
func NewSenderContext() *SenderContext {
	return &SenderContext{
		MilestoneRequest:     NewRoute(),
		TransactionBroadcast: NewRoute(),
		TransactionRequest:   NewRoute(),
		Heartbeat:            NewRoute(),
		Metrics:              &peer.Metrics{},
	}
}

// routeFor returns the Route carrying messages of kind.
func (c *SenderContext) routeFor(kind message.Kind) *Route {
	switch kind {
	case message.KindMilestoneRequest:
		return c.MilestoneRequest
	case message.KindTransactionBroadcast:
		return c.TransactionBroadcast
	case message.KindTransactionRequest:
		return c.TransactionRequest
	case message.KindHeartbeat:
		return c.Heartbeat
	default:
		return nil
	}
}

// shutdown signals every route's sender task to stop and closes the
// routes so later enqueues fail fast instead of piling onto a dead queue.
func (c *SenderContext) shutdown() {
	for _, r := range []*Route{c.MilestoneRequest, c.TransactionBroadcast, c.TransactionRequest, c.Heartbeat} {
		r.Shutdown()
		r.Close()
	}
}

// SenderWorker drains one Route and dispatches its messages to the
// network for a single peer. One worker runs per (peer, message kind)
// pair, which is what gives that pair its end-to-end ordering
// guarantee: the route is the only path to the network for it.
type SenderWorker struct {
	network     netadapter.Network
	endpoint    peer.EndpointID
	route       *Route
	incrementor func(*peer.Metrics)
	peerMetrics *peer.Metrics
	aggregate   *peer.Metrics
	log         *logrus.Entry
}

// NewSenderWorker creates a SenderWorker bound to one peer's route for
// a single message kind. Successful sends bump kind's counter on both
// peerMetrics and the process-wide aggregate.
func NewSenderWorker(network netadapter.Network, endpoint peer.EndpointID, kind message.Kind, route *Route, peerMetrics, aggregate *peer.Metrics) *SenderWorker {
	return &SenderWorker{
		network:     network,
		endpoint:    endpoint,
		route:       route,
		incrementor: sentIncrementorFor(kind),
		peerMetrics: peerMetrics,
		aggregate:   aggregate,
		log:         logs.Get(logs.SubsystemSender),
	}
}

// sentIncrementorFor selects the Metrics counter matching kind.
func sentIncrementorFor(kind message.Kind) func(*peer.Metrics) {
	switch kind {
	case message.KindMilestoneRequest:
		return (*peer.Metrics).MilestoneRequestSent
	case message.KindTransactionBroadcast:
		return (*peer.Metrics).TransactionBroadcastSent
	case message.KindTransactionRequest:
		return (*peer.Metrics).TransactionRequestSent
	case message.KindHeartbeat:
		return (*peer.Metrics).HeartbeatSent
	default:
		return func(*peer.Metrics) {}
	}
}

// Run drains the route until it is shut down or closed. It never
// returns an error: send failures are logged and the loop continues.
func (w *SenderWorker) Run() {
	for {
		select {
		case m, ok := <-w.route.messages:
			if !ok {
				return
			}
			err := w.network.Send(netadapter.SendBytes{
				EndpointID: w.endpoint,
				Bytes:      message.IntoFullBytes(m),
			})
			if err != nil {
				w.log.Warnf("sending message to %s failed: %s", w.endpoint, err)
				continue
			}
			w.incrementor(w.peerMetrics)
			w.incrementor(w.aggregate)
		case <-w.route.shutdown:
			w.drain()
			return
		}
	}
}

// drain consumes whatever remains on the route once shutdown has been
// signaled, so queued-but-unsent messages are released rather than
// held for the life of the process.
func (w *SenderWorker) drain() {
	for {
		select {
		case _, ok := <-w.route.messages:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
