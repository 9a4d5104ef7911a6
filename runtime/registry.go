package runtime

import (
	"go.uber.org/zap"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/arena"
	"github.com/wippyai/ui-runtime/errors"
	"github.com/wippyai/ui-runtime/internal/slot"
)

// NewScope mounts a component instance as a child of the scope currently
// being rendered (or as a root scope when no render is in progress) and
// returns its identifier. The identifier stays valid until RemoveScope and is
// never handed out again while the scope is live.
func (rt *Runtime) NewScope(props Props, name string) uiruntime.ScopeID {
	if props == nil {
		panic(errors.InvalidInput(errors.PhaseMount, "nil props"))
	}

	var parent uiruntime.ScopeID
	var height uint32
	if cur, ok := rt.CurrentScope(); ok {
		parent = cur
		p, ok := rt.Scope(cur)
		if !ok {
			panic(errors.Invariant(errors.PhaseMount,
				"scope stack names scope %d but the registry does not know it", cur))
		}
		height = p.height + 1
	}

	s := &Scope{
		parent: parent,
		height: height,
		name:   name,
		props:  props,
		frames: arena.NewPair(),
		rt:     rt,
	}

	rt.mu.Lock()
	key := rt.scopes.Insert(s)
	rt.mu.Unlock()

	s.id = uiruntime.ScopeID(key)

	Logger().Debug("mounted scope",
		zap.Uint32("scope", uint32(s.id)),
		zap.Uint32("parent", uint32(parent)),
		zap.Uint32("height", height),
		zap.String("name", name))

	return s.id
}

// RemoveScope tears a scope down and frees its slot: its cleanups run, its
// spawned tasks are cancelled, any suspense leaf referencing it is dropped,
// and its dirty entry (if any) is discarded. Identifiers of other live scopes
// are unaffected; the freed identifier may be reused by a later mount.
func (rt *Runtime) RemoveScope(id uiruntime.ScopeID) {
	rt.mu.Lock()
	s, ok := rt.scopes.Remove(slot.Key(id))
	rt.mu.Unlock()
	if !ok {
		return
	}

	s.runCleanups()
	leaves, tasks := rt.sched.DropScope(id)
	rt.dirty.Remove(DirtyScope{Height: s.height, ID: id})

	// Props become absent after teardown; a later render attempt against a
	// stale pointer to this scope is a fatal caller error.
	s.props = nil
	s.hooks = nil
	s.working = nil

	Logger().Debug("removed scope",
		zap.Uint32("scope", uint32(id)),
		zap.String("name", s.name),
		zap.Int("dropped_leaves", leaves),
		zap.Int("cancelled_tasks", tasks))
}

// ensureDropSafety frees listener and borrowed-prop state left over from the
// prior render of s, so nothing rendered this pass can read stale references.
// Borrowing children are torn down first: their props point into data this
// render is about to replace.
func (rt *Runtime) ensureDropSafety(s *Scope) {
	borrowers := s.borrowers
	s.borrowers = nil
	for _, child := range borrowers {
		if c, ok := rt.Scope(child); ok {
			rt.ensureDropSafety(c)
		}
	}
	s.runCleanups()
}
