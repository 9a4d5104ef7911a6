// Package errors provides structured error types for the render engine.
//
// Every error carries a Phase (where in the scope lifecycle it occurred) and a
// Kind (what went wrong), so collaborators can match on error classes with
// errors.Is rather than string comparison:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseRender, Kind: errors.KindTornDown}) {
//	    // scope was unmounted between dirty-marking and render
//	}
//
// # Invariant violations
//
// Kinds KindInvariant, KindTornDown, and KindHookOrder describe programming
// errors that must never be handled gracefully: continuing would corrupt arena
// or registry state. The engine panics with the structured *Error value so the
// failure is loud and carries its context.
package errors
