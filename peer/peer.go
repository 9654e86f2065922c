// Package peer tracks handshaked peers: a reader-writer-locked
// registry keyed by endpoint identity, holding the handshake details
// each peer announced.
package peer

import (
	"math/rand"
	"sync"

	"github.com/gossipdag/tangled/hashpkg"
	"github.com/pkg/errors"
)

// EndpointID identifies a network endpoint, independent of the
// transport that carries bytes to it.
type EndpointID string

// Peer holds the handshake-announced state of a connected endpoint.
type Peer struct {
	id EndpointID

	mu                 sync.RWMutex
	handshaked         bool
	coordinatorAddress hashpkg.Address
	minWeightMagnitude byte
}

// New creates a Peer for the given endpoint, not yet handshaked.
func New(id EndpointID) *Peer {
	return &Peer{id: id}
}

// ID returns the peer's endpoint identity.
func (p *Peer) ID() EndpointID {
	return p.id
}

// MarkHandshaked records the handshake details announced by the peer.
func (p *Peer) MarkHandshaked(coordinatorAddress hashpkg.Address, minWeightMagnitude byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handshaked = true
	p.coordinatorAddress = coordinatorAddress
	p.minWeightMagnitude = minWeightMagnitude
}

// IsHandshaked reports whether the handshake has completed.
func (p *Peer) IsHandshaked() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.handshaked
}

// ErrPeerAlreadyExists signifies that a peer with the same ID is already tracked.
var ErrPeerAlreadyExists = errors.New("peer with this ID already exists")

// Manager tracks connected peers, keyed by endpoint ID, guarded by a
// reader-writer lock: lookups and random selection are frequent and
// concurrent, while add/remove only happen on connect/disconnect.
type Manager struct {
	mu    sync.RWMutex
	peers map[EndpointID]*Peer
}

// NewManager creates an empty peer Manager.
func NewManager() *Manager {
	return &Manager{peers: make(map[EndpointID]*Peer)}
}

// Add registers a newly connected peer.
func (m *Manager) Add(p *Peer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.peers[p.id]; exists {
		return errors.Wrapf(ErrPeerAlreadyExists, "endpoint %s", p.id)
	}
	m.peers[p.id] = p
	return nil
}

// Remove unregisters a disconnected peer.
func (m *Manager) Remove(id EndpointID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.peers, id)
}

// Get looks up a tracked peer by endpoint ID.
func (m *Manager) Get(id EndpointID) (*Peer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.peers[id]
	return p, ok
}

// HandshakedPeers returns every currently handshaked peer.
func (m *Manager) HandshakedPeers() []*Peer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Peer, 0, len(m.peers))
	for _, p := range m.peers {
		if p.IsHandshaked() {
			out = append(out, p)
		}
	}
	return out
}

// RandomHandshakedPeer picks a uniformly random handshaked peer using
// rng, reporting false if none are handshaked.
func (m *Manager) RandomHandshakedPeer(rng *rand.Rand) (*Peer, bool) {
	handshaked := m.HandshakedPeers()
	if len(handshaked) == 0 {
		return nil, false
	}
	return handshaked[rng.Intn(len(handshaked))], true
}
