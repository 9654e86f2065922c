// Package tangle implements the concurrent DAG store: vertices keyed
// by transaction hash, their approver adjacency, milestone indexing,
// and the four read-only graph traversals.
package tangle

import (
	"sync"

	"github.com/gossipdag/tangled/bundle"
)

// Vertex wraps a Transaction with mutable solid and milestone flags.
// The Transaction itself never changes after the Vertex is built;
// every lookup of the same hash shares this one Vertex (and so this
// one Transaction pointer).
type Vertex struct {
	tx    *bundle.Transaction
	mu    sync.RWMutex
	flags vertexFlags
}

type vertexFlags struct {
	solid     bool
	milestone bool
}

// NewVertex wraps tx in a fresh Vertex with both flags clear.
func NewVertex(tx *bundle.Transaction) *Vertex {
	return &Vertex{tx: tx}
}

// Transaction returns the shared handle to the wrapped transaction.
func (v *Vertex) Transaction() *bundle.Transaction {
	return v.tx
}

// IsSolid reports whether solidification has marked this vertex solid.
func (v *Vertex) IsSolid() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.flags.solid
}

// SetSolid marks the vertex solid.
func (v *Vertex) SetSolid() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flags.solid = true
}

// IsMilestone reports whether this vertex is known to carry a milestone.
func (v *Vertex) IsMilestone() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.flags.milestone
}

// SetMilestone marks the vertex as carrying a milestone.
func (v *Vertex) SetMilestone() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flags.milestone = true
}
