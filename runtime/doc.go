// Package runtime implements the render-scope lifecycle: the scope registry,
// the render step, dirty tracking, hooks, and suspense integration.
//
// # Scopes
//
// A scope is one mounted component instance. The registry is a slot table:
// identifiers are stable while a scope is live and reused only after removal.
// Mounting during a render attaches the new scope as a child of the scope
// being rendered (the "current scope" stack), one level deeper.
//
// # The render step
//
// RunScope is the only entry point collaborators use to force a (re)render:
//
//	out := rt.RunScope(id)
//
// Each render cycles the scope's dual-frame arena: the non-current frame is
// reset and becomes the write target, the component body allocates its tree
// into it, and publishing flips the frames. The returned RenderReturn is a
// bounded-lifetime view, valid until the same scope renders again.
//
// # Suspense
//
// A component body that cannot complete returns a pending RenderReturn
// carrying a Future. The render step polls it in a tight loop, draining
// self-waking futures synchronously; only a future that stays not-ready with
// no self-wake is registered as a suspense leaf with the scheduler. The wake
// path later retires the leaf and marks the scope dirty, and the next render
// completes normally.
//
// # Failure semantics
//
// Rendering a torn-down scope, consuming hooks out of order, and allocating
// nodes outside a render step are invariant violations: the package panics
// with a structured *errors.Error rather than risk corrupting arena state.
// A panic from a component body is not caught here; error boundaries live one
// layer up. The engine only guarantees its own bookkeeping stays consistent:
// an abandoned render never publishes its half-written frame.
package runtime
