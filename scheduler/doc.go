// Package scheduler bridges suspended renders into the outer event loop.
//
// # Suspense leaves
//
// When a component body cannot complete synchronously, the render step wraps
// the in-flight computation in a SuspenseLeaf. The leaf's Waker distinguishes
// two regimes:
//
//   - during the render step's synchronous poll loop, a wake sets a flag the
//     loop consumes to re-poll immediately, so futures that are "ready enough"
//     never round-trip through the outer loop;
//   - once the leaf is committed to the leaf table, a wake sends on the wake
//     channel, and the runtime's resolution path re-renders the owning scope.
//
// Leaf identifiers come from a reserve/commit slot table: a future that
// resolves on first poll aborts its reservation and leaves no trace.
//
// # Tasks
//
// Scopes spawn background tasks under cancellable contexts. Removing a scope
// cancels its tasks and discards its leaves; a wake that arrives for a leaf
// that no longer exists is a safe no-op.
package scheduler
