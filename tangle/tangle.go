package tangle

import (
	"sync"
	"sync/atomic"

	"github.com/gossipdag/tangled/bundle"
	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/milestone"
)

// TxHashPair is a (transaction, hash) pair returned by the trunk walks.
type TxHashPair struct {
	Transaction *bundle.Transaction
	Hash        hashpkg.Hash
}

// Tangle is the process-wide DAG store. It is safe for concurrent use
// by many readers and writers; individual operations are atomic but
// compound operations (insertion updates both the approver adjacency
// and the vertex map) are not, so readers may briefly observe an
// approver entry whose vertex is not yet visible. Traversals tolerate
// this by skipping missing vertices.
type Tangle struct {
	verticesMu sync.RWMutex
	vertices   map[hashpkg.Hash]*Vertex

	approversMu sync.RWMutex
	approvers   map[hashpkg.Hash][]hashpkg.Hash

	milestonesMu sync.RWMutex
	milestones   map[milestone.Index]hashpkg.Hash

	sepMu            sync.RWMutex
	solidEntryPoints map[hashpkg.Hash]struct{}

	solidMilestoneIndex    atomic.Uint32
	snapshotMilestoneIndex atomic.Uint32
	lastMilestoneIndex     atomic.Uint32

	solidifierSend chan<- *hashpkg.Hash
	dropBarrier    <-chan struct{}
}

// New creates an empty Tangle. solidifierSend is the channel that
// InsertTransaction notifies of newly stored hashes (nil terminates
// the solidifier on Shutdown); dropBarrier, if non-nil, is awaited by
// Shutdown so that the solidifier finishes any in-flight work before
// Shutdown returns.
func New(solidifierSend chan<- *hashpkg.Hash, dropBarrier <-chan struct{}) *Tangle {
	return &Tangle{
		vertices:         make(map[hashpkg.Hash]*Vertex),
		approvers:        make(map[hashpkg.Hash][]hashpkg.Hash),
		milestones:       make(map[milestone.Index]hashpkg.Hash),
		solidEntryPoints: make(map[hashpkg.Hash]struct{}),
		solidifierSend:   solidifierSend,
		dropBarrier:      dropBarrier,
	}
}

// InsertTransaction records tx under hash and links it into the
// approver adjacency of its trunk (and branch, if distinct).
//
// The approver lists are updated unconditionally, before the vertex
// insertion is attempted: if hash is already present the approver
// lists still gained an entry for it. This mirrors the upstream
// behavior verbatim (tracked as an open question there); re-inserting
// a duplicate-approver entry is considered benign since traversals
// only ever follow a matching trunk edge, which the duplicate also
// satisfies, so no traversal observes a different result because of it.
//
// Returns the shared transaction handle and true if this call
// performed the insertion, or (nil, false) if hash was already present.
func (t *Tangle) InsertTransaction(tx *bundle.Transaction, hash hashpkg.Hash) (*bundle.Transaction, bool) {
	t.approversMu.Lock()
	t.approvers[tx.Trunk()] = append(t.approvers[tx.Trunk()], hash)
	if tx.Trunk() != tx.Branch() {
		t.approvers[tx.Branch()] = append(t.approvers[tx.Branch()], hash)
	}
	t.approversMu.Unlock()

	vertex := NewVertex(tx)

	t.verticesMu.Lock()
	_, exists := t.vertices[hash]
	if !exists {
		t.vertices[hash] = vertex
	}
	t.verticesMu.Unlock()

	if exists {
		return nil, false
	}

	if t.solidifierSend != nil {
		notified := hash
		t.solidifierSend <- &notified
	}
	return tx, true
}

// GetTransaction returns the shared handle stored under hash, if any.
func (t *Tangle) GetTransaction(hash hashpkg.Hash) (*bundle.Transaction, bool) {
	t.verticesMu.RLock()
	defer t.verticesMu.RUnlock()
	v, ok := t.vertices[hash]
	if !ok {
		return nil, false
	}
	return v.Transaction(), true
}

// ContainsTransaction reports whether hash is stored.
func (t *Tangle) ContainsTransaction(hash hashpkg.Hash) bool {
	t.verticesMu.RLock()
	defer t.verticesMu.RUnlock()
	_, ok := t.vertices[hash]
	return ok
}

// Size returns the number of stored vertices.
func (t *Tangle) Size() int {
	t.verticesMu.RLock()
	defer t.verticesMu.RUnlock()
	return len(t.vertices)
}

// IsSolidTransaction reports whether hash is a solid entry point or a
// vertex whose solid flag is set. This is eventually consistent: a
// true result means solidification has definitely occurred; a false
// result may just mean it has not yet propagated.
func (t *Tangle) IsSolidTransaction(hash hashpkg.Hash) bool {
	if t.IsSolidEntryPoint(hash) {
		return true
	}
	t.verticesMu.RLock()
	v, ok := t.vertices[hash]
	t.verticesMu.RUnlock()
	if !ok {
		return false
	}
	return v.IsSolid()
}

// AddMilestone records index -> hash and, if the vertex is known,
// marks it as carrying a milestone.
func (t *Tangle) AddMilestone(index milestone.Index, hash hashpkg.Hash) {
	t.milestonesMu.Lock()
	t.milestones[index] = hash
	t.milestonesMu.Unlock()

	t.verticesMu.RLock()
	v, ok := t.vertices[hash]
	t.verticesMu.RUnlock()
	if ok {
		v.SetMilestone()
	}
}

// RemoveMilestone deletes the index -> hash mapping.
func (t *Tangle) RemoveMilestone(index milestone.Index) {
	t.milestonesMu.Lock()
	delete(t.milestones, index)
	t.milestonesMu.Unlock()
}

// GetMilestoneHash returns the hash recorded for index.
func (t *Tangle) GetMilestoneHash(index milestone.Index) (hashpkg.Hash, bool) {
	t.milestonesMu.RLock()
	defer t.milestonesMu.RUnlock()
	h, ok := t.milestones[index]
	return h, ok
}

// GetMilestone returns the transaction recorded for milestone index.
func (t *Tangle) GetMilestone(index milestone.Index) (*bundle.Transaction, bool) {
	hash, ok := t.GetMilestoneHash(index)
	if !ok {
		return nil, false
	}
	return t.GetTransaction(hash)
}

// GetLatestMilestone returns the hash and transaction of the most
// recently recorded milestone. It reports false if no milestone has
// been recorded at the last-milestone index or its transaction is not
// stored.
func (t *Tangle) GetLatestMilestone() (*bundle.Transaction, hashpkg.Hash, bool) {
	hash, ok := t.GetMilestoneHash(t.LastMilestoneIndex())
	if !ok {
		return nil, hashpkg.Hash{}, false
	}
	tx, ok := t.GetTransaction(hash)
	if !ok {
		return nil, hash, false
	}
	return tx, hash, true
}

// ContainsMilestone reports whether index has a recorded hash.
func (t *Tangle) ContainsMilestone(index milestone.Index) bool {
	t.milestonesMu.RLock()
	defer t.milestonesMu.RUnlock()
	_, ok := t.milestones[index]
	return ok
}

// SolidMilestoneIndex returns the current solid milestone index.
func (t *Tangle) SolidMilestoneIndex() milestone.Index {
	return milestone.Index(t.solidMilestoneIndex.Load())
}

// SetSolidMilestoneIndex stores a new solid milestone index with a
// relaxed store; there is no compare-and-swap, so concurrent writers
// can regress the value. Callers that must only ever increase it are
// responsible for checking the current value first.
func (t *Tangle) SetSolidMilestoneIndex(index milestone.Index) {
	t.solidMilestoneIndex.Store(uint32(index))
}

// SnapshotMilestoneIndex returns the current snapshot milestone index.
func (t *Tangle) SnapshotMilestoneIndex() milestone.Index {
	return milestone.Index(t.snapshotMilestoneIndex.Load())
}

// SetSnapshotMilestoneIndex stores a new snapshot milestone index.
func (t *Tangle) SetSnapshotMilestoneIndex(index milestone.Index) {
	t.snapshotMilestoneIndex.Store(uint32(index))
}

// LastMilestoneIndex returns the current last milestone index.
func (t *Tangle) LastMilestoneIndex() milestone.Index {
	return milestone.Index(t.lastMilestoneIndex.Load())
}

// SetLastMilestoneIndex stores a new last milestone index.
func (t *Tangle) SetLastMilestoneIndex(index milestone.Index) {
	t.lastMilestoneIndex.Store(uint32(index))
}

// IsSynced reports whether the solid milestone index has caught up to
// the last milestone index.
func (t *Tangle) IsSynced() bool {
	return t.SolidMilestoneIndex() == t.LastMilestoneIndex()
}

// AddSolidEntryPoint marks hash as a cut-off ancestor considered known solid.
func (t *Tangle) AddSolidEntryPoint(hash hashpkg.Hash) {
	t.sepMu.Lock()
	t.solidEntryPoints[hash] = struct{}{}
	t.sepMu.Unlock()
}

// RemoveSolidEntryPoint unmarks hash as a solid entry point.
func (t *Tangle) RemoveSolidEntryPoint(hash hashpkg.Hash) {
	t.sepMu.Lock()
	delete(t.solidEntryPoints, hash)
	t.sepMu.Unlock()
}

// IsSolidEntryPoint reports whether hash is marked as a solid entry point.
func (t *Tangle) IsSolidEntryPoint(hash hashpkg.Hash) bool {
	t.sepMu.RLock()
	defer t.sepMu.RUnlock()
	_, ok := t.solidEntryPoints[hash]
	return ok
}

// NumApprovers reports how many approver hashes are recorded for hash.
// It exists mainly to let tests observe approver-adjacency fan-out
// directly, mirroring the upstream test-only helper of the same name.
func (t *Tangle) NumApprovers(hash hashpkg.Hash) int {
	t.approversMu.RLock()
	defer t.approversMu.RUnlock()
	return len(t.approvers[hash])
}

// Shutdown sends the terminal sentinel to the solidifier channel and,
// if a drop barrier was configured, waits for it to close before
// returning, ensuring no traversal runs after shutdown completes.
func (t *Tangle) Shutdown() {
	if t.solidifierSend != nil {
		t.solidifierSend <- nil
	}
	if t.dropBarrier != nil {
		<-t.dropBarrier
	}
}

// TrunkWalkApprovers descends from start following only trunk edges,
// at each step selecting the first approver (in insertion order) whose
// trunk is the current hash and which passes filter. It stops at the
// first step with no matching approver.
func (t *Tangle) TrunkWalkApprovers(start hashpkg.Hash, filter func(*bundle.Transaction) bool) []TxHashPair {
	var collected []TxHashPair

	startVertex, ok := t.lookupVertex(start)
	if !ok {
		return collected
	}
	startTx := startVertex.Transaction()
	if !filter(startTx) {
		return collected
	}
	collected = append(collected, TxHashPair{Transaction: startTx, Hash: start})

	current := start
	for {
		approverHashes := t.approverHashes(current)
		var nextHash hashpkg.Hash
		var nextTx *bundle.Transaction
		found := false
		for _, approverHash := range approverHashes {
			v, ok := t.lookupVertex(approverHash)
			if !ok {
				continue
			}
			tx := v.Transaction()
			if tx.Trunk() == current && filter(tx) {
				nextHash = approverHash
				nextTx = tx
				found = true
				break
			}
		}
		if !found {
			break
		}
		collected = append(collected, TxHashPair{Transaction: nextTx, Hash: nextHash})
		current = nextHash
	}
	return collected
}

// TrunkWalkApprovees ascends from start following trunk edges, for as
// long as each ancestor passes filter.
func (t *Tangle) TrunkWalkApprovees(start hashpkg.Hash, filter func(*bundle.Transaction) bool) []TxHashPair {
	var collected []TxHashPair
	current := start
	for {
		v, ok := t.lookupVertex(current)
		if !ok {
			break
		}
		tx := v.Transaction()
		if !filter(tx) {
			break
		}
		collected = append(collected, TxHashPair{Transaction: tx, Hash: current})
		current = tx.Trunk()
	}
	return collected
}

// WalkApproveesDepthFirst performs an iterative DFS over root's
// ancestors, descending trunk before branch. It maintains an
// analyzed-hash set to avoid re-expanding a hash reached by more than
// one path, and invokes onMissing for any hash that is absent and not
// a solid entry point.
func (t *Tangle) WalkApproveesDepthFirst(
	root hashpkg.Hash,
	mapFn func(*bundle.Transaction),
	shouldFollow func(*Vertex) bool,
	onMissing func(hashpkg.Hash),
) {
	nonAnalyzed := []hashpkg.Hash{root}
	analyzed := make(map[hashpkg.Hash]struct{})

	for len(nonAnalyzed) > 0 {
		hash := nonAnalyzed[len(nonAnalyzed)-1]
		nonAnalyzed = nonAnalyzed[:len(nonAnalyzed)-1]

		if _, seen := analyzed[hash]; seen {
			continue
		}

		v, ok := t.lookupVertex(hash)
		if ok {
			tx := v.Transaction()
			mapFn(tx)
			if shouldFollow(v) {
				nonAnalyzed = append(nonAnalyzed, tx.Branch(), tx.Trunk())
			}
		} else if !t.IsSolidEntryPoint(hash) {
			onMissing(hash)
		}
		analyzed[hash] = struct{}{}
	}
}

// WalkApproversPostOrderDFS performs an iterative post-order DFS
// starting at root: a hash is emitted only once both its trunk and
// branch have themselves been emitted (or found missing), preferring
// to expand the trunk child first.
func (t *Tangle) WalkApproversPostOrderDFS(
	root hashpkg.Hash,
	mapFn func(hashpkg.Hash, *bundle.Transaction),
	shouldFollow func(*Vertex) bool,
	onMissing func(hashpkg.Hash),
) {
	stack := []hashpkg.Hash{root}
	analyzed := make(map[hashpkg.Hash]struct{})

	for len(stack) > 0 {
		hash := stack[len(stack)-1]

		v, ok := t.lookupVertex(hash)
		if !ok {
			if !t.IsSolidEntryPoint(hash) {
				onMissing(hash)
			}
			analyzed[hash] = struct{}{}
			stack = stack[:len(stack)-1]
			continue
		}

		tx := v.Transaction()
		_, trunkDone := analyzed[tx.Trunk()]
		_, branchDone := analyzed[tx.Branch()]

		switch {
		case trunkDone && branchDone:
			mapFn(hash, tx)
			analyzed[hash] = struct{}{}
			stack = stack[:len(stack)-1]
		case !trunkDone:
			stack = append(stack, tx.Trunk())
		default:
			stack = append(stack, tx.Branch())
		}
	}
}

func (t *Tangle) lookupVertex(hash hashpkg.Hash) (*Vertex, bool) {
	t.verticesMu.RLock()
	defer t.verticesMu.RUnlock()
	v, ok := t.vertices[hash]
	return v, ok
}

func (t *Tangle) approverHashes(hash hashpkg.Hash) []hashpkg.Hash {
	t.approversMu.RLock()
	defer t.approversMu.RUnlock()
	out := make([]hashpkg.Hash, len(t.approvers[hash]))
	copy(out, t.approvers[hash])
	return out
}
