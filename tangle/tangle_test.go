package tangle

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gossipdag/tangled/bundle"
	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/milestone"
)

func labelHash(label byte) hashpkg.Hash {
	var h hashpkg.Hash
	h[0] = label
	return h
}

func newTangleForTest() *Tangle {
	solidifier := make(chan *hashpkg.Hash, 64)
	return New(solidifier, nil)
}

func attachedTx(address, branch, trunk hashpkg.Hash) *bundle.Transaction {
	return bundle.NewTransaction(bundle.Fields{
		Address:    hashpkg.Address(address),
		TrunkHash:  trunk,
		BranchHash: branch,
	})
}

func TestInsertAndContains(t *testing.T) {
	tangle := newTangleForTest()
	hash := labelHash(1)
	tx := attachedTx(hash, labelHash(0), labelHash(0))

	got, inserted := tangle.InsertTransaction(tx, hash)
	if !inserted || got != tx {
		t.Fatalf("expected first insertion to succeed and return the stored transaction")
	}
	if tangle.Size() != 1 {
		t.Fatalf("size = %d, want 1", tangle.Size())
	}
	if !tangle.ContainsTransaction(hash) {
		t.Fatal("expected ContainsTransaction to be true")
	}

	_, insertedAgain := tangle.InsertTransaction(tx, hash)
	if insertedAgain {
		t.Fatal("expected second insertion of the same hash to report false")
	}
	if tangle.Size() != 1 {
		t.Fatalf("size after duplicate insert = %d, want 1", tangle.Size())
	}
}

func TestMilestoneIndexAccessors(t *testing.T) {
	tangle := newTangleForTest()

	tangle.SetSnapshotMilestoneIndex(milestone.Index(1368160))
	if tangle.SnapshotMilestoneIndex() != 1368160 {
		t.Fatalf("snapshot index = %d", tangle.SnapshotMilestoneIndex())
	}

	tangle.SetSolidMilestoneIndex(milestone.Index(1368167))
	if tangle.SolidMilestoneIndex() != 1368167 {
		t.Fatalf("solid index = %d", tangle.SolidMilestoneIndex())
	}

	tangle.SetLastMilestoneIndex(milestone.Index(1368168))
	if tangle.LastMilestoneIndex() != 1368168 {
		t.Fatalf("last index = %d", tangle.LastMilestoneIndex())
	}

	if tangle.IsSynced() {
		t.Fatal("solid != last, should not be synced")
	}
	tangle.SetSolidMilestoneIndex(tangle.LastMilestoneIndex())
	if !tangle.IsSynced() {
		t.Fatal("solid == last, should be synced")
	}
}

func TestAddMilestoneSetsVertexFlag(t *testing.T) {
	tangle := newTangleForTest()
	hash := labelHash(5)
	tx := attachedTx(hash, labelHash(0), labelHash(0))
	tangle.InsertTransaction(tx, hash)

	tangle.AddMilestone(milestone.Index(3), hash)

	if !tangle.ContainsMilestone(milestone.Index(3)) {
		t.Fatal("expected milestone 3 to be recorded")
	}
	gotHash, ok := tangle.GetMilestoneHash(milestone.Index(3))
	if !ok || gotHash != hash {
		t.Fatalf("GetMilestoneHash = %v, %v", gotHash, ok)
	}

	v, ok := tangle.lookupVertex(hash)
	if !ok || !v.IsMilestone() {
		t.Fatal("expected vertex milestone flag to be set")
	}

	tangle.RemoveMilestone(milestone.Index(3))
	if tangle.ContainsMilestone(milestone.Index(3)) {
		t.Fatal("expected milestone 3 to be removed")
	}
}

func TestGetLatestMilestone(t *testing.T) {
	tangle := newTangleForTest()

	if _, _, ok := tangle.GetLatestMilestone(); ok {
		t.Fatal("expected no latest milestone on an empty tangle")
	}

	hash := labelHash(9)
	tx := attachedTx(hash, labelHash(0), labelHash(0))
	tangle.InsertTransaction(tx, hash)
	tangle.AddMilestone(milestone.Index(7), hash)
	tangle.SetLastMilestoneIndex(milestone.Index(7))

	gotTx, gotHash, ok := tangle.GetLatestMilestone()
	if !ok || gotHash != hash || gotTx != tx {
		t.Fatalf("GetLatestMilestone = %v, %v, %v, want the stored milestone transaction", gotTx, gotHash, ok)
	}
}

// buildFiveVertexFixture constructs:
//
//	a   b
//	|\ /
//	| c
//	|/|
//	d |
//	 \|
//	  e
//
// with the trunk path from e: e -> d -> a.
func buildFiveVertexFixture(t *testing.T) (tangle *Tangle, hashes map[string]hashpkg.Hash, txs map[string]*bundle.Transaction) {
	t.Helper()
	tangle = newTangleForTest()

	root := labelHash(0)
	aHash, bHash := labelHash('a'), labelHash('b')
	cHash := labelHash('c')
	dHash := labelHash('d')
	eHash := labelHash('e')

	a := attachedTx(aHash, root, root)
	b := attachedTx(bHash, root, root)
	c := attachedTx(cHash, aHash, bHash) // branch=a, trunk=b
	d := attachedTx(dHash, cHash, aHash) // branch=c, trunk=a
	e := attachedTx(eHash, cHash, dHash) // branch=c, trunk=d

	tangle.InsertTransaction(a, aHash)
	tangle.InsertTransaction(b, bHash)
	tangle.InsertTransaction(c, cHash)
	tangle.InsertTransaction(d, dHash)
	tangle.InsertTransaction(e, eHash)

	if tangle.Size() != 5 {
		t.Fatalf("size = %d, want 5", tangle.Size())
	}
	if got := tangle.NumApprovers(aHash); got != 2 {
		t.Fatalf("num_approvers(a) = %d, want 2", got)
	}
	if got := tangle.NumApprovers(bHash); got != 1 {
		t.Fatalf("num_approvers(b) = %d, want 1", got)
	}
	if got := tangle.NumApprovers(cHash); got != 2 {
		t.Fatalf("num_approvers(c) = %d, want 2", got)
	}
	if got := tangle.NumApprovers(dHash); got != 1 {
		t.Fatalf("num_approvers(d) = %d, want 1", got)
	}
	if got := tangle.NumApprovers(eHash); got != 0 {
		t.Fatalf("num_approvers(e) = %d, want 0", got)
	}

	return tangle, map[string]hashpkg.Hash{"a": aHash, "b": bHash, "c": cHash, "d": dHash, "e": eHash},
		map[string]*bundle.Transaction{"a": a, "b": b, "c": c, "d": d, "e": e}
}

func TestTrunkWalkApprovers(t *testing.T) {
	tangle, hashes, txs := buildFiveVertexFixture(t)

	result := tangle.TrunkWalkApprovers(hashes["a"], func(*bundle.Transaction) bool { return true })
	if len(result) != 3 {
		t.Fatalf("len = %d, want 3", len(result))
	}
	want := []string{"a", "d", "e"}
	for i, label := range want {
		if result[i].Transaction.Address() != txs[label].Address() {
			t.Fatalf("result[%d] address mismatch: want %s", i, label)
		}
	}
}

func TestTrunkWalkApprovees(t *testing.T) {
	tangle, hashes, txs := buildFiveVertexFixture(t)

	result := tangle.TrunkWalkApprovees(hashes["e"], func(*bundle.Transaction) bool { return true })
	if len(result) != 3 {
		t.Fatalf("len = %d, want 3", len(result))
	}
	want := []string{"e", "d", "a"}
	for i, label := range want {
		if result[i].Transaction.Address() != txs[label].Address() {
			t.Fatalf("result[%d] address mismatch: want %s", i, label)
		}
	}
}

func TestWalkApproveesDepthFirst(t *testing.T) {
	tangle, hashes, txs := buildFiveVertexFixture(t)

	var addresses []hashpkg.Address
	tangle.WalkApproveesDepthFirst(
		hashes["e"],
		func(tx *bundle.Transaction) { addresses = append(addresses, tx.Address()) },
		func(*Vertex) bool { return true },
		func(hashpkg.Hash) {},
	)

	want := []string{"e", "d", "a", "c", "b"}
	if len(addresses) != len(want) {
		t.Fatalf("len = %d, want %d", len(addresses), len(want))
	}
	for i, label := range want {
		if addresses[i] != txs[label].Address() {
			t.Fatalf("addresses[%d] mismatch: want %s", i, label)
		}
	}
}

// buildRFC0005Fixture reproduces the 26-vertex graph from the
// "white flag" ordering example (protocol-rfcs #0005), rooted behind
// six solid entry points.
func buildRFC0005Fixture(tb *testing.T) (tangle *Tangle, hash map[byte]hashpkg.Hash) {
	tb.Helper()
	tangle = newTangleForTest()
	hash = make(map[byte]hashpkg.Hash)

	sep := func(n byte) hashpkg.Hash {
		h := labelHash(200 + n)
		tangle.AddSolidEntryPoint(h)
		return h
	}
	sep1, sep2, sep3 := sep(1), sep(2), sep(3)
	sep4, sep5, sep6 := sep(4), sep(5), sep(6)

	attach := func(label byte, branch, trunk hashpkg.Hash) hashpkg.Hash {
		h := labelHash(label)
		hash[label] = h
		tx := attachedTx(h, branch, trunk)
		tangle.InsertTransaction(tx, h)
		return h
	}

	a := attach('a', sep1, sep2)
	b := attach('b', sep3, sep4)
	c := attach('c', sep5, sep6)
	d := attach('d', b, a)
	e := attach('e', b, a)
	f := attach('f', c, b)
	g := attach('g', e, d)
	h := attach('h', f, e)
	i := attach('i', c, f)
	j := attach('j', h, g)
	k := attach('k', i, h)
	l := attach('l', j, g)
	m := attach('m', h, j)
	n := attach('n', k, h)
	o := attach('o', i, k)
	attach('p', i, k)
	q := attach('q', m, l)
	r := attach('r', m, l)
	s := attach('s', o, n)
	p := hash['p']
	t := attach('t', p, o)
	u := attach('u', r, q)
	v := attach('v', s, r)
	attach('w', t, s)
	attach('x', u, q)
	attach('y', v, u)
	attach('z', s, v)

	return tangle, hash
}

func TestWalkApproversPostOrderDFS(t *testing.T) {
	tangle, hash := buildRFC0005Fixture(t)

	var visited []hashpkg.Hash
	tangle.WalkApproversPostOrderDFS(
		hash['v'],
		func(h hashpkg.Hash, _ *bundle.Transaction) { visited = append(visited, h) },
		func(*Vertex) bool { return true },
		func(hashpkg.Hash) {},
	)

	wantOrder := []byte{'a', 'b', 'd', 'e', 'g', 'c', 'f', 'h', 'j', 'l', 'm', 'r', 'i', 'k', 'n', 'o', 's', 'v'}
	if len(visited) != len(wantOrder) {
		t.Fatalf("len = %d, want %d\nvisited: %s", len(visited), len(wantOrder), spew.Sdump(visited))
	}
	for idx, label := range wantOrder {
		if visited[idx] != hash[label] {
			t.Fatalf("visited[%d] = %v, want hash of %q\nfull order: %s", idx, visited[idx], label, spew.Sdump(visited))
		}
	}
}

func TestShutdownSendsTerminalSentinelAndWaitsBarrier(t *testing.T) {
	solidifier := make(chan *hashpkg.Hash, 1)
	barrier := make(chan struct{})
	tangle := New(solidifier, barrier)

	done := make(chan struct{})
	go func() {
		<-solidifier // terminal sentinel (nil)
		close(barrier)
		close(done)
	}()

	tangle.Shutdown()
	<-done
}
