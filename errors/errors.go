package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the scope lifecycle the error occurred
type Phase string

const (
	PhaseMount    Phase = "mount"    // scope allocation
	PhaseRender   Phase = "render"   // render step
	PhaseSuspend  Phase = "suspend"  // suspense polling / leaf bookkeeping
	PhaseTeardown Phase = "teardown" // scope removal and task cancellation
	PhaseAsset    Phase = "asset"    // asset protocol handling
)

// Kind categorizes the error
type Kind string

const (
	KindInvariant    Kind = "invariant"     // internal invariant broken; never recoverable
	KindTornDown     Kind = "torn_down"     // operation against a scope with no props
	KindHookOrder    Kind = "hook_order"    // hooks consumed in a different order than declared
	KindAllocation   Kind = "allocation"    // arena exhaustion
	KindNotFound     Kind = "not_found"     // unknown scope, leaf, or asset
	KindInvalidInput Kind = "invalid_input" // malformed caller input
	KindForbidden    Kind = "forbidden"     // asset path escapes the sandbox root
)

// Error is the structured error type used throughout the engine
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Scope  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Scope != "" {
		b.WriteString(" in scope ")
		b.WriteString(e.Scope)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Scope sets the scope the error originated in
func (b *Builder) Scope(name string) *Builder {
	b.err.Scope = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Invariant creates an invariant-violation error. Callers are expected to
// panic with the result rather than return it.
func Invariant(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvariant,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// TornDown creates an error for operations against a torn-down scope
func TornDown(phase Phase, scope string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTornDown,
		Scope:  scope,
		Detail: "scope has no props; it was torn down",
	}
}

// HookOrder creates a hook-order mismatch error
func HookOrder(scope string, index, declared int) *Error {
	return &Error{
		Phase:  PhaseRender,
		Kind:   KindHookOrder,
		Scope:  scope,
		Detail: fmt.Sprintf("hook %d requested but only %d were declared on first render", index, declared),
	}
}

// AllocationFailed creates an arena exhaustion error
func AllocationFailed(phase Phase, size int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, id uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %d not found", what, id),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Forbidden creates an error for asset requests escaping the sandbox root
func Forbidden(path string) *Error {
	return &Error{
		Phase:  PhaseAsset,
		Kind:   KindForbidden,
		Detail: fmt.Sprintf("path %q escapes the asset root", path),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
