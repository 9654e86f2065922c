// Package netadapter declares the network boundary the protocol layer
// consumes: sending raw framed bytes to a peer endpoint, and the
// accounting a concrete transport needs to route disconnects back to
// the protocol layer. The concrete TCP listener/connection wiring is
// out of scope; this package specifies the interface the core attaches
// to, plus a transport-agnostic Adapter that dispatches to whatever
// Connection is registered for an endpoint.
package netadapter

import (
	"sync"

	"github.com/gossipdag/tangled/peer"
	"github.com/pkg/errors"
)

// SendBytes is a request to deliver already-framed bytes to a single
// peer endpoint.
type SendBytes struct {
	EndpointID peer.EndpointID
	Bytes      []byte
}

// Network is the narrow network capability the sender fabric and
// requester need: deliver framed bytes to one endpoint.
type Network interface {
	Send(req SendBytes) error
}

// ErrUnknownEndpoint is returned by Adapter.Send when no connection is
// registered for the given endpoint.
var ErrUnknownEndpoint = errors.New("no connection registered for endpoint")

// Connection is the minimal capability a concrete transport connection
// must expose to be driven by the Adapter.
type Connection interface {
	Send(bytes []byte) error
	Disconnect() error
}

// Adapter is a transport-agnostic Network that dispatches to whichever
// concrete Connection is currently registered for an endpoint.
type Adapter struct {
	mu          sync.RWMutex
	connections map[peer.EndpointID]Connection
}

// NewAdapter creates an empty Adapter.
func NewAdapter() *Adapter {
	return &Adapter{connections: make(map[peer.EndpointID]Connection)}
}

// RegisterConnection associates id with a live Connection.
func (a *Adapter) RegisterConnection(id peer.EndpointID, conn Connection) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connections[id] = conn
}

// UnregisterConnection removes any connection registered for id.
func (a *Adapter) UnregisterConnection(id peer.EndpointID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.connections, id)
}

// Send implements Network by forwarding bytes to the connection
// registered for req.EndpointID.
func (a *Adapter) Send(req SendBytes) error {
	a.mu.RLock()
	conn, ok := a.connections[req.EndpointID]
	a.mu.RUnlock()
	if !ok {
		return errors.Wrapf(ErrUnknownEndpoint, "endpoint %s", req.EndpointID)
	}
	return conn.Send(req.Bytes)
}
