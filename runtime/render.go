package runtime

import (
	"go.uber.org/zap"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/errors"
	"github.com/wippyai/ui-runtime/scheduler"
	"github.com/wippyai/ui-runtime/vnode"
)

// maxSelfWakePolls bounds the synchronous re-poll loop. A future that wakes
// itself indefinitely would otherwise starve the outer loop; past the cap the
// leaf is handed to the scheduler like any genuinely blocking future.
const maxSelfWakePolls = 1024

// RenderKind discriminates render outcomes.
type RenderKind uint8

const (
	RenderEmpty   RenderKind = iota // render produced no nodes
	RenderReady                     // Root holds a completed tree
	RenderPending                   // Task is suspended; Leaf names its record
)

// RenderReturn is the published outcome of one render of one scope.
//
// It is owned by the frame that produced it: the Root tree (and the value
// itself) stay valid only until the owning scope's next render.
type RenderReturn struct {
	Kind RenderKind
	Root *vnode.VNode
	Task scheduler.Future
	Leaf scheduler.LeafID
}

// RunScope renders one scope and publishes the result, returning a view that
// is valid until this scope's next render.
//
// The steps, in order: the drop-safety sweep frees listener and borrowed-prop
// state from the prior render; the arena pair cycles so the write target is
// fresh; the hook cursor rewinds; the component body runs; a suspended body
// goes through the synchronous suspense poll loop; and the final value is
// stored as the write frame's root, which then becomes the current frame.
//
// Rendering a removed or torn-down scope is a fatal programming error. A
// panic out of the component body leaves the scope consistent: the write
// target is never published and will be reset by the next attempt.
func (rt *Runtime) RunScope(id uiruntime.ScopeID) *RenderReturn {
	s, ok := rt.Scope(id)
	if !ok {
		panic(errors.NotFound(errors.PhaseRender, "scope", uint32(id)))
	}
	if s.props == nil {
		panic(errors.TornDown(errors.PhaseRender, s.name))
	}

	rt.ensureDropSafety(s)

	target := s.frames.Cycle()

	// Hooks are re-consumed in declaration order every render.
	s.hookIdx = 0
	s.working = target

	rt.pushScope(id)
	out := func() RenderReturn {
		defer rt.popScope()
		defer func() {
			// On a panic the working frame stays unpublished; clearing the
			// pointer keeps a later builder call from writing into it.
			if r := recover(); r != nil {
				s.working = nil
				panic(r)
			}
		}()
		return s.props.Render(s)
	}()

	if out.Kind == RenderPending {
		if out.Task == nil {
			panic(errors.Invariant(errors.PhaseSuspend,
				"scope %q returned pending without a task", s.name))
		}
		out = rt.pollSuspense(s, out.Task)
	}

	ret := new(RenderReturn)
	*ret = out
	target.SetRoot(ret)
	s.frames.Publish()
	s.working = nil
	s.renderCnt++

	rt.dirty.Remove(DirtyScope{Height: s.height, ID: id})

	Logger().Debug("rendered scope",
		zap.Uint32("scope", uint32(id)),
		zap.String("name", s.name),
		zap.Uint32("render", s.renderCnt),
		zap.Uint8("kind", uint8(ret.Kind)))

	return ret
}

// pollSuspense synchronously fast-forwards a suspended render. Futures that
// resolve without real blocking (already-cached data, yield-then-continue
// patterns) complete here with zero scheduler round-trips; only a genuinely
// blocked future is committed to the leaf table.
func (rt *Runtime) pollSuspense(s *Scope, task scheduler.Future) RenderReturn {
	leafID := rt.sched.ReserveLeaf()
	leaf := scheduler.NewLeaf(leafID, s.id, task, rt.sched.Sender())
	w := leaf.Waker()

	for polls := 0; ; polls++ {
		nodes, ready := task.Poll(w)

		if ready {
			// Resolved synchronously: the reservation dies here and no
			// external bookkeeping ever happens.
			rt.sched.AbortLeaf(leafID)
			if nodes == nil {
				return RenderReturn{Kind: RenderEmpty}
			}
			return RenderReturn{Kind: RenderReady, Root: nodes}
		}

		// A wake during this exact poll means the future can already make
		// progress again; loop instead of round-tripping through the
		// scheduler.
		if polls < maxSelfWakePolls && w.TakeNotified() {
			continue
		}

		rt.sched.CommitLeaf(leafID, leaf)
		rt.collected = append(rt.collected, leafID)

		// A wake that slipped in between the last poll and the commit was
		// flag-only; replay it through the channel so it is not lost.
		if w.TakeNotified() {
			rt.sched.Sender().Send(scheduler.Msg{Kind: scheduler.MsgSuspenseWoken, Leaf: leafID})
		}

		Logger().Debug("suspended scope",
			zap.Uint32("scope", uint32(s.id)),
			zap.Uint32("leaf", uint32(leafID)),
			zap.Int("polls", polls+1))

		return RenderReturn{Kind: RenderPending, Task: task, Leaf: leafID}
	}
}

// ProcessDirty renders every dirty scope in non-decreasing height order and
// returns the identifiers processed. Entries whose scope disappeared between
// marking and processing are skipped.
func (rt *Runtime) ProcessDirty() []uiruntime.ScopeID {
	var processed []uiruntime.ScopeID
	for {
		d, ok := rt.dirty.Pop()
		if !ok {
			return processed
		}
		if _, ok := rt.Scope(d.ID); !ok {
			continue
		}
		rt.RunScope(d.ID)
		processed = append(processed, d.ID)
	}
}

// HandleWake applies one wake notification. A wake for an unknown leaf, or
// for a leaf whose scope has since been removed, is a safe no-op; otherwise
// the leaf is retired and its scope queued for re-render, where the now-ready
// body completes.
func (rt *Runtime) HandleWake(m scheduler.Msg) {
	if m.Kind != scheduler.MsgSuspenseWoken {
		return
	}

	leaf, ok := rt.sched.RemoveLeaf(m.Leaf)
	if !ok {
		return
	}
	if _, ok := rt.Scope(leaf.Scope); !ok {
		Logger().Debug("wake for removed scope",
			zap.Uint32("leaf", uint32(m.Leaf)),
			zap.Uint32("scope", uint32(leaf.Scope)))
		return
	}
	rt.MarkDirty(leaf.Scope)
}

// DrainWakes applies every notification currently queued on the wake channel
// without blocking, returning how many were handled. Callers typically follow
// with ProcessDirty.
//
// After the channel is empty the registered leaves are swept for set notified
// flags: a wake whose message was dropped on a full buffer is recovered here,
// so a saturated channel delays a re-render but never strands a scope.
func (rt *Runtime) DrainWakes() int {
	n := 0
	for {
		select {
		case m := <-rt.sched.Wakes():
			rt.HandleWake(m)
			n++
		default:
			for _, id := range rt.sched.NotifiedLeaves() {
				rt.HandleWake(scheduler.Msg{Kind: scheduler.MsgSuspenseWoken, Leaf: id})
				n++
			}
			return n
		}
	}
}
