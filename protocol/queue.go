package protocol

import (
	"context"

	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/milestone"
	"github.com/gossipdag/tangled/waitqueue"
)

// TransactionRequesterEntry is one outstanding request: the hash to
// ask peers for, and the milestone index it was requested at, which
// doubles as the entry's queue priority.
type TransactionRequesterEntry struct {
	Hash  hashpkg.Hash
	Index milestone.Index
}

// requesterEntryLess orders entries by ascending index, which the
// waitqueue inverts into pop-largest-first: the requester always
// retries the most recent outstanding request first.
func requesterEntryLess(a, b TransactionRequesterEntry) bool {
	return a.Index < b.Index
}

// Queue is the requester's priority queue of outstanding requests.
type Queue struct {
	inner *waitqueue.Queue[TransactionRequesterEntry]
}

// NewQueue creates an empty requester Queue.
func NewQueue() *Queue {
	return &Queue{inner: waitqueue.New(requesterEntryLess)}
}

// Insert adds entry to the queue, waking a blocked Pop if one is waiting.
func (q *Queue) Insert(entry TransactionRequesterEntry) {
	q.inner.Insert(entry)
}

// Pop removes and returns the highest-index outstanding entry,
// blocking until one is available or ctx is done.
func (q *Queue) Pop(ctx context.Context) (TransactionRequesterEntry, error) {
	return q.inner.Pop(ctx)
}

// Len reports the number of queued (not yet popped) entries.
func (q *Queue) Len() int {
	return q.inner.Len()
}
