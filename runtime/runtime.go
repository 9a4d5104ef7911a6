package runtime

import (
	"sync"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/internal/slot"
	"github.com/wippyai/ui-runtime/scheduler"
)

// Runtime owns every scope instance and drives the render lifecycle: it
// allocates scopes into a slot table, tracks which scopes are dirty, and runs
// the render step one scope at a time.
//
// Rendering is single-consumer: RunScope and scope removal must not be called
// concurrently with each other. MarkDirty and the scheduler's wake channel
// accept concurrent producers.
type Runtime struct {
	mu         sync.RWMutex
	scopes     *slot.Table[*Scope]
	scopeStack []uiruntime.ScopeID
	dirty      dirtySet
	sched      *scheduler.Scheduler
	collected  []scheduler.LeafID
}

// New creates a runtime bound to a scheduler.
func New(sched *scheduler.Scheduler) *Runtime {
	return &Runtime{
		scopes: slot.New[*Scope](16),
		sched:  sched,
	}
}

// Scheduler returns the scheduler this runtime registers suspense leaves with.
func (rt *Runtime) Scheduler() *scheduler.Scheduler {
	return rt.sched
}

// Scope looks up a live scope instance.
func (rt *Runtime) Scope(id uiruntime.ScopeID) (*Scope, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.scopes.Get(slot.Key(id))
}

// ScopeCount returns the number of live scopes.
func (rt *Runtime) ScopeCount() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.scopes.Len()
}

// CurrentScope returns the scope whose render is in progress, if any.
func (rt *Runtime) CurrentScope() (uiruntime.ScopeID, bool) {
	if n := len(rt.scopeStack); n > 0 {
		return rt.scopeStack[n-1], true
	}
	return 0, false
}

// TakeCollectedLeaves returns the suspense leaves registered since the last
// call. Suspense boundary logic one layer up consumes this per work batch.
func (rt *Runtime) TakeCollectedLeaves() []scheduler.LeafID {
	out := rt.collected
	rt.collected = nil
	return out
}

func (rt *Runtime) pushScope(id uiruntime.ScopeID) {
	rt.scopeStack = append(rt.scopeStack, id)
}

func (rt *Runtime) popScope() {
	rt.scopeStack = rt.scopeStack[:len(rt.scopeStack)-1]
}
