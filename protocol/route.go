// Package protocol wires together the peer send fabric, transaction
// requester, transaction ingest worker, and milestone validator into
// the process-wide Protocol singleton.
package protocol

import (
	"sync"

	"github.com/gossipdag/tangled/message"
	"github.com/pkg/errors"
)

const defaultRouteCapacity = 100

// ErrRouteClosed indicates a Route was used after Close.
var ErrRouteClosed = errors.New("route is closed")

// Route is a bounded, single-message-kind outbound queue paired with a
// shutdown signal, one per (peer, message kind) pair.
type Route struct {
	messages  chan message.Message
	shutdown  chan struct{}
	closeLock sync.Mutex
	closed    bool
}

// NewRoute creates a Route with the default channel capacity.
func NewRoute() *Route {
	return newRouteWithCapacity(defaultRouteCapacity)
}

func newRouteWithCapacity(capacity int) *Route {
	return &Route{
		messages: make(chan message.Message, capacity),
		shutdown: make(chan struct{}),
	}
}

// Enqueue attempts to queue m without blocking. A full or closed route
// reports an error; the caller logs and drops the message.
func (r *Route) Enqueue(m message.Message) error {
	r.closeLock.Lock()
	defer r.closeLock.Unlock()
	if r.closed {
		return ErrRouteClosed
	}
	select {
	case r.messages <- m:
		return nil
	default:
		return errors.New("route is at capacity")
	}
}

// Shutdown signals the paired sender task to stop.
func (r *Route) Shutdown() {
	close(r.shutdown)
}

// Close marks the route closed and releases its channel, unblocking
// any goroutine still trying to enqueue.
func (r *Route) Close() {
	r.closeLock.Lock()
	defer r.closeLock.Unlock()
	r.closed = true
	close(r.messages)
}
