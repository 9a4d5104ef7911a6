package scheduler

import (
	"sync"

	"go.uber.org/zap"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/internal/slot"
)

// wakeBuffer bounds the wake channel. A wake dropped from a full buffer
// leaves the leaf's notified flag set; NotifiedLeaves recovers it on the next
// drain, so a full buffer only delays a wake, it cannot lose the leaf's state.
const wakeBuffer = 1024

// Scheduler owns the suspense leaf table and the task table, and carries the
// wake channel connecting background work to the render loop.
//
// The render step is the sole writer of the leaf table during suspension; the
// resolution path (HandleWake on the runtime side) is its sole remover.
type Scheduler struct {
	mu     sync.Mutex
	leaves *slot.Table[*SuspenseLeaf]
	tasks  *slot.Table[*Task]
	wakes  chan Msg
}

// New creates a scheduler with an empty leaf table and task table.
func New() *Scheduler {
	return &Scheduler{
		leaves: slot.New[*SuspenseLeaf](8),
		tasks:  slot.New[*Task](8),
		wakes:  make(chan Msg, wakeBuffer),
	}
}

// Sender returns a clonable handle for producing wake notifications.
// Senders are safe for concurrent use.
func (s *Scheduler) Sender() Sender {
	return Sender{ch: s.wakes}
}

// Wakes returns the receive side of the wake channel. The render loop is the
// single consumer.
func (s *Scheduler) Wakes() <-chan Msg {
	return s.wakes
}

// ReserveLeaf hands out the identifier the next leaf will have without
// registering it. The render step reserves before polling so the waker can
// carry its identity; a synchronously resolved future aborts the reservation
// and no table entry is ever created.
func (s *Scheduler) ReserveLeaf() LeafID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaves.Reserve()
}

// CommitLeaf registers a leaf under its reserved identifier.
func (s *Scheduler) CommitLeaf(id LeafID, leaf *SuspenseLeaf) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves.Commit(id, leaf)
	leaf.registered.Store(true)
}

// AbortLeaf releases a reserved identifier without registering a leaf.
func (s *Scheduler) AbortLeaf(id LeafID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves.Abort(id)
}

// Leaf looks up a registered leaf.
func (s *Scheduler) Leaf(id LeafID) (*SuspenseLeaf, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaves.Get(id)
}

// RemoveLeaf deletes a leaf and returns it. Unknown identifiers are a no-op:
// a wake can race scope removal, and the stale message must be harmless.
func (s *Scheduler) RemoveLeaf(id LeafID) (*SuspenseLeaf, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaves.Remove(id)
}

// LeafCount returns the number of registered leaves.
func (s *Scheduler) LeafCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaves.Len()
}

// NotifiedLeaves consumes the notified flag of every registered leaf and
// returns the ids that had it set. A wake whose channel message was dropped on
// a full buffer leaves only this flag behind; the drain path sweeps it here so
// the leaf's scope still re-renders. A leaf whose message is merely still
// queued is also returned — resolving it early is harmless because the stale
// message becomes a no-op once the leaf is removed.
func (s *Scheduler) NotifiedLeaves() []LeafID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []LeafID
	s.leaves.Each(func(id LeafID, l *SuspenseLeaf) bool {
		if l.notified.Swap(false) {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// DropScope cancels every task spawned by the scope and removes every leaf
// that references it. Called during scope teardown.
func (s *Scheduler) DropScope(scope uiruntime.ScopeID) (leaves, tasks int) {
	s.mu.Lock()

	var leafIDs []LeafID
	s.leaves.Each(func(id LeafID, l *SuspenseLeaf) bool {
		if l.Scope == scope {
			leafIDs = append(leafIDs, id)
		}
		return true
	})
	for _, id := range leafIDs {
		s.leaves.Remove(id)
	}

	var cancel []*Task
	s.tasks.Each(func(id TaskID, tk *Task) bool {
		if tk.Scope == scope {
			cancel = append(cancel, tk)
		}
		return true
	})
	for _, tk := range cancel {
		s.tasks.Remove(tk.ID)
	}
	s.mu.Unlock()

	// Cancel outside the lock: task goroutines re-enter the scheduler to
	// report completion.
	for _, tk := range cancel {
		tk.cancel()
	}

	if len(leafIDs) > 0 || len(cancel) > 0 {
		Logger().Debug("dropped scope work",
			zap.Uint32("scope", uint32(scope)),
			zap.Int("leaves", len(leafIDs)),
			zap.Int("tasks", len(cancel)))
	}
	return len(leafIDs), len(cancel)
}
