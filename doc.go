// Package uiruntime provides the render-scope lifecycle engine of a UI runtime.
//
// The engine manages one reusable memory arena pair per component instance,
// coordinates re-renders through depth-ordered dirty tracking, and folds
// asynchronous (suspending) component bodies into a single-pass render step.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	ui-runtime/          Root package with shared identifier types
//	├── runtime/         Scope registry, render step, dirty set, hooks
//	├── scheduler/       Suspense leaves, wakers, task spawning, wake channel
//	├── arena/           Chunked bump allocation and per-scope dual frames
//	├── vnode/           Output tree node types consumed by the diffing layer
//	├── assets/          Window-shell asset protocol handler
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Mount a root component and render it:
//
//	rt := runtime.New(scheduler.New())
//	root := rt.NewScope(myProps, "App")
//
//	out := rt.RunScope(root)
//	switch out.Kind {
//	case runtime.RenderReady:
//	    diff(out.Root) // valid until the scope's next render
//	case runtime.RenderPending:
//	    // a suspense leaf was registered; re-render on wake
//	}
//
// # Memory Model
//
// Rendered trees live in per-scope arenas, not on the Go heap per node. Each
// scope double-buffers two frames: consumers only ever see the current frame,
// and the next render overwrites the other one. Publishing a render flips the
// frames, which invalidates every reference into the frame that was current.
// References returned by RunScope are therefore bounded: they are valid until
// the same scope renders again.
//
// # Thread Safety
//
// The render step is single-consumer: one scope renders at a time. The wake
// channel and dirty set accept concurrent producers; everything else assumes
// exclusive access during a render.
package uiruntime

// ScopeID identifies a live scope instance. IDs are stable for the scope's
// lifetime and reused only after the scope is removed. The zero ScopeID is
// never valid.
type ScopeID uint32
