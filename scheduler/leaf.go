package scheduler

import (
	"sync/atomic"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/internal/slot"
	"github.com/wippyai/ui-runtime/vnode"
)

// LeafID identifies one outstanding suspended render in the leaf table.
type LeafID = slot.Key

// Future is an in-flight asynchronous render. The render step polls it; a
// not-ready future must arrange for its Waker to be invoked when it can make
// progress.
//
// Poll returns the produced nodes and true when the computation completes.
// Ready with nil nodes maps to the empty output. A future lives in its owning
// scope's write frame for the duration of one render attempt and is re-created
// by the component body on the next render.
type Future interface {
	Poll(w *Waker) (*vnode.VNode, bool)
}

// SuspenseLeaf is the bookkeeping record for one suspended render.
type SuspenseLeaf struct {
	ID    LeafID
	Scope uiruntime.ScopeID
	Task  Future

	tx         Sender
	notified   atomic.Bool
	registered atomic.Bool
}

// NewLeaf creates a leaf for a suspended render of the given scope. The leaf
// is not registered; the render step commits it only if the future fails to
// resolve synchronously.
func NewLeaf(id LeafID, scope uiruntime.ScopeID, task Future, tx Sender) *SuspenseLeaf {
	return &SuspenseLeaf{
		ID:    id,
		Scope: scope,
		Task:  task,
		tx:    tx,
	}
}

// Waker returns the wake handle bound to this leaf.
func (l *SuspenseLeaf) Waker() *Waker {
	return &Waker{leaf: l}
}

// Waker signals that a suspended computation can make progress.
//
// Before the leaf is committed to the leaf table, a wake only sets the leaf's
// notified flag: the render step is mid-poll and re-polls locally, so no
// scheduler round-trip happens. After commitment, a wake sends on the
// scheduler channel to re-trigger the owning scope from the outer loop.
type Waker struct {
	leaf *SuspenseLeaf
}

// Wake signals the computation. Safe for concurrent use.
func (w *Waker) Wake() {
	l := w.leaf
	l.notified.Store(true)
	if l.registered.Load() {
		l.tx.Send(Msg{Kind: MsgSuspenseWoken, Leaf: l.ID})
	}
}

// TakeNotified consumes the self-wake signal. Used by the render step's poll
// loop to decide between re-polling and deferring to the scheduler.
func (w *Waker) TakeNotified() bool {
	return w.leaf.notified.Swap(false)
}

// MsgKind discriminates wake channel messages.
type MsgKind uint8

const (
	MsgSuspenseWoken MsgKind = iota // a registered leaf's future can progress
	MsgTaskDone                     // a spawned task finished on its own
)

// Msg is one wake notification.
type Msg struct {
	Kind MsgKind
	Leaf LeafID
	Task TaskID
}

// Sender produces wake notifications. The zero Sender discards messages.
// Copies share the same channel, mirroring a clonable channel handle.
type Sender struct {
	ch chan<- Msg
}

// Send delivers a message without blocking. If the buffer is full the message
// is dropped; the leaf's notified flag still records that a wake happened.
func (s Sender) Send(m Msg) {
	if s.ch == nil {
		return
	}
	select {
	case s.ch <- m:
	default:
	}
}
