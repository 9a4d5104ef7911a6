package runtime

import (
	"context"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/arena"
	"github.com/wippyai/ui-runtime/errors"
	"github.com/wippyai/ui-runtime/scheduler"
	"github.com/wippyai/ui-runtime/vnode"
)

// Props is the capability a component's state implements to be rendered.
// The registry owns the props; the render step borrows them for the duration
// of exactly one Render call.
type Props interface {
	Render(s *Scope) RenderReturn
}

// PropsFunc adapts a plain function to the Props interface.
type PropsFunc func(s *Scope) RenderReturn

// Render implements Props.
func (f PropsFunc) Render(s *Scope) RenderReturn {
	return f(s)
}

// Scope is one instantiated component and its render state: identity, parent
// link, nesting height, hook storage, the dual-frame arena pair, and the
// bookkeeping for spawned tasks and borrowed props.
type Scope struct {
	id     uiruntime.ScopeID
	parent uiruntime.ScopeID // zero for the root scope
	height uint32
	name   string // diagnostic only

	props  Props
	frames *arena.Pair

	renderCnt uint32

	hooks   []any
	hookIdx int

	contexts map[string]any

	tasks     []scheduler.TaskID
	cleanups  []func()
	borrowers []uiruntime.ScopeID // child scopes whose props borrow from ours

	// working is the frame being written by an in-progress render of this
	// scope; nil outside the render step.
	working *arena.Frame

	rt *Runtime
}

// ID returns the scope's stable identifier.
func (s *Scope) ID() uiruntime.ScopeID { return s.id }

// Parent returns the parent scope identifier, or zero for the root.
func (s *Scope) Parent() uiruntime.ScopeID { return s.parent }

// Height returns the nesting depth: parent height + 1, root is 0.
func (s *Scope) Height() uint32 { return s.height }

// Name returns the diagnostic name the scope was mounted with.
func (s *Scope) Name() string { return s.name }

// RenderCount returns how many renders this scope has completed.
func (s *Scope) RenderCount() uint32 { return s.renderCnt }

// Props returns the scope's component state, or nil after teardown.
func (s *Scope) Props() Props { return s.props }

// CurrentFrame returns the scope's published frame. Only the current frame's
// contents are ever exposed outside the render step.
func (s *Scope) CurrentFrame() *arena.Frame {
	return s.frames.Current()
}

// frame returns the write target of an in-progress render.
func (s *Scope) frame() *arena.Frame {
	if s.working == nil {
		panic(errors.Invariant(errors.PhaseRender,
			"scope %q allocated nodes outside its own render step", s.name))
	}
	return s.working
}

// Element allocates an element node in the scope's write frame.
func (s *Scope) Element(tag string, attrs []vnode.Attr, children ...*vnode.VNode) *vnode.VNode {
	n := s.frame().AllocNode()
	n.Kind = vnode.KindElement
	n.Tag = tag
	n.Attrs = attrs
	n.Children = children
	return n
}

// Text allocates a text node. The text is copied into the frame's byte arena
// and shares its lifetime.
func (s *Scope) Text(text string) *vnode.VNode {
	f := s.frame()
	n := f.AllocNode()
	n.Kind = vnode.KindText
	n.Text = f.Bump().AllocString(text)
	return n
}

// Placeholder allocates an empty-position marker node.
func (s *Scope) Placeholder() *vnode.VNode {
	n := s.frame().AllocNode()
	n.Kind = vnode.KindPlaceholder
	return n
}

// Attr builds an attribute whose value is copied into the write frame.
func (s *Scope) Attr(name, value string) vnode.Attr {
	return vnode.Attr{Name: name, Value: s.frame().Bump().AllocString(value)}
}

// UseHook returns the hook state at the current cursor position, initializing
// it with init on the scope's first render. Hooks must be consumed in the
// exact order they were declared; consuming more hooks on a later render than
// were declared on the first is an invariant violation and panics.
func UseHook[T any](s *Scope, init func() *T) *T {
	idx := s.hookIdx
	s.hookIdx++

	if idx < len(s.hooks) {
		v, ok := s.hooks[idx].(*T)
		if !ok {
			panic(errors.HookOrder(s.name, idx, len(s.hooks)))
		}
		return v
	}

	if s.renderCnt > 0 {
		panic(errors.HookOrder(s.name, idx, len(s.hooks)))
	}

	v := init()
	s.hooks = append(s.hooks, v)
	return v
}

// HookCursor exposes the hook cursor position. Diagnostic only.
func (s *Scope) HookCursor() int { return s.hookIdx }

// ProvideContext publishes a value that descendant scopes can consume.
// The providing scope owns the value; descendants read-share it.
func (s *Scope) ProvideContext(key string, v any) {
	if s.contexts == nil {
		s.contexts = make(map[string]any, 2)
	}
	s.contexts[key] = v
}

// ConsumeContext walks the parent chain for the nearest provided value.
func (s *Scope) ConsumeContext(key string) (any, bool) {
	for cur := s; cur != nil; {
		if v, ok := cur.contexts[key]; ok {
			return v, true
		}
		if cur.parent == 0 {
			break
		}
		next, ok := s.rt.Scope(cur.parent)
		if !ok {
			break
		}
		cur = next
	}
	return nil, false
}

// Spawn starts a background task owned by this scope. The task is cancelled
// when the scope is removed. Spawning on a removed scope is a fatal caller
// error: nothing would ever cancel the task.
func (s *Scope) Spawn(fn func(ctx context.Context)) scheduler.TaskID {
	if s.props == nil {
		panic(errors.TornDown(errors.PhaseTeardown, s.name))
	}
	id := s.rt.sched.Spawn(s.id, fn)
	s.tasks = append(s.tasks, id)
	return id
}

// OnCleanup registers teardown to run before this scope's next render and at
// removal. Listener teardown registers here so a re-render can never observe
// state from the previous render.
func (s *Scope) OnCleanup(fn func()) {
	s.cleanups = append(s.cleanups, fn)
}

// MarkBorrower records that child's props borrow from this scope's data.
// The drop-safety sweep tears the borrower down before this scope re-renders,
// so the borrowed reference can never outlive what it points into.
func (s *Scope) MarkBorrower(child uiruntime.ScopeID) {
	s.borrowers = append(s.borrowers, child)
}

// NeedsRender reports whether the scope has never produced a frame.
func (s *Scope) NeedsRender() bool {
	return s.renderCnt == 0
}

func (s *Scope) runCleanups() {
	for _, fn := range s.cleanups {
		fn()
	}
	s.cleanups = nil
}
