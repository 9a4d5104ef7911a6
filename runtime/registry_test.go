package runtime

import (
	"context"
	"testing"
	"time"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/errors"
)

func TestScopeIdentifiersStableAcrossRemoval(t *testing.T) {
	rt := newTestRuntime()

	a := rt.NewScope(&counterProps{}, "A")
	b := rt.NewScope(&counterProps{}, "B")
	c := rt.NewScope(&counterProps{}, "C")

	rt.RemoveScope(b)

	for _, id := range []uiruntime.ScopeID{a, c} {
		if _, ok := rt.Scope(id); !ok {
			t.Errorf("scope %d invalidated by unrelated removal", id)
		}
	}

	// The freed identifier is reused; the live ones are not.
	d := rt.NewScope(&counterProps{}, "D")
	if d != b {
		t.Errorf("expected freed id %d to be reused, got %d", b, d)
	}
}

func TestRemoveScopeCancelsTasks(t *testing.T) {
	rt := newTestRuntime()
	id := rt.NewScope(PropsFunc(func(s *Scope) RenderReturn {
		if s.NeedsRender() {
			s.Spawn(func(ctx context.Context) {
				<-ctx.Done()
			})
			s.Spawn(func(ctx context.Context) {
				<-ctx.Done()
			})
		}
		return RenderReturn{Kind: RenderReady, Root: s.Placeholder()}
	}), "Worker")

	rt.RunScope(id)
	if n := rt.Scheduler().TaskCount(id); n != 2 {
		t.Fatalf("task count = %d, want 2", n)
	}

	rt.RemoveScope(id)

	// Cancellation is asynchronous from the goroutines' perspective; the
	// table entries themselves are removed synchronously.
	if n := rt.Scheduler().TaskCount(id); n != 0 {
		t.Errorf("task count = %d after removal, want 0", n)
	}

	deadline := time.After(time.Second)
	for rt.Scheduler().TaskCount(0) != 0 {
		select {
		case <-deadline:
			t.Fatal("task goroutines did not exit")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestSpawnAfterRemovalPanics(t *testing.T) {
	rt := newTestRuntime()

	var leaked *Scope
	id := rt.NewScope(PropsFunc(func(s *Scope) RenderReturn {
		leaked = s
		return RenderReturn{Kind: RenderReady, Root: s.Placeholder()}
	}), "Leaky")
	rt.RunScope(id)
	rt.RemoveScope(id)

	// A task spawned here would never be cancelled; nothing owns it anymore.
	defer func() {
		r := recover()
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value %T, want *errors.Error", r)
		}
		if err.Phase != errors.PhaseTeardown || err.Kind != errors.KindTornDown {
			t.Fatalf("err = %v, want teardown-phase torn_down", err)
		}
	}()
	leaked.Spawn(func(ctx context.Context) {})
}

func TestCleanupRunsBeforeRerenderAndAtRemoval(t *testing.T) {
	rt := newTestRuntime()

	var torn []int
	id := rt.NewScope(PropsFunc(func(s *Scope) RenderReturn {
		gen := int(s.RenderCount())
		s.OnCleanup(func() { torn = append(torn, gen) })
		return RenderReturn{Kind: RenderReady, Root: s.Placeholder()}
	}), "Listener")

	rt.RunScope(id) // registers cleanup 0
	rt.RunScope(id) // sweep runs cleanup 0, registers cleanup 1
	rt.RemoveScope(id)

	want := []int{0, 1}
	if len(torn) != len(want) || torn[0] != want[0] || torn[1] != want[1] {
		t.Errorf("cleanup order = %v, want %v", torn, want)
	}
}

func TestBorrowerSweptBeforeParentRerender(t *testing.T) {
	rt := newTestRuntime()

	var swept []string
	var childID uiruntime.ScopeID

	parentID := rt.NewScope(PropsFunc(func(s *Scope) RenderReturn {
		if s.NeedsRender() {
			childID = s.rt.NewScope(PropsFunc(func(c *Scope) RenderReturn {
				c.OnCleanup(func() { swept = append(swept, "child") })
				return RenderReturn{Kind: RenderReady, Root: c.Placeholder()}
			}), "Child")
			s.MarkBorrower(childID)
		}
		s.OnCleanup(func() { swept = append(swept, "parent") })
		return RenderReturn{Kind: RenderReady, Root: s.Placeholder()}
	}), "Parent")

	rt.RunScope(parentID)
	rt.RunScope(childID)

	swept = nil
	rt.RunScope(parentID)

	// The borrowing child's state is freed before the parent's own: its
	// props point into data the parent render is about to replace.
	if len(swept) != 2 || swept[0] != "child" || swept[1] != "parent" {
		t.Errorf("sweep order = %v, want [child parent]", swept)
	}
}

func TestConsumeContextWalksAncestors(t *testing.T) {
	rt := newTestRuntime()

	var got any
	var found bool

	rootID := rt.NewScope(PropsFunc(func(s *Scope) RenderReturn {
		s.ProvideContext("theme", "dark")
		if s.NeedsRender() {
			child := s.rt.NewScope(PropsFunc(func(c *Scope) RenderReturn {
				got, found = c.ConsumeContext("theme")
				return RenderReturn{Kind: RenderReady, Root: c.Placeholder()}
			}), "Leaf")
			s.rt.RunScope(child)
		}
		return RenderReturn{Kind: RenderReady, Root: s.Placeholder()}
	}), "Root")

	rt.RunScope(rootID)

	if !found || got != "dark" {
		t.Errorf("ConsumeContext = (%v, %v), want (dark, true)", got, found)
	}

	if _, ok := rt.Scope(rootID); !ok {
		t.Fatal("root scope missing")
	}
}

func TestConsumeContextMissing(t *testing.T) {
	rt := newTestRuntime()
	id := rt.NewScope(PropsFunc(func(s *Scope) RenderReturn {
		if _, ok := s.ConsumeContext("nope"); ok {
			t.Error("found a context nobody provided")
		}
		return RenderReturn{Kind: RenderReady, Root: s.Placeholder()}
	}), "Orphan")
	rt.RunScope(id)
}

func TestRemoveUnknownScopeIsNoOp(t *testing.T) {
	rt := newTestRuntime()
	rt.RemoveScope(12345) // must not panic
}

func TestCurrentScopeDuringRender(t *testing.T) {
	rt := newTestRuntime()

	var sawSelf bool
	id := rt.NewScope(PropsFunc(func(s *Scope) RenderReturn {
		cur, ok := s.rt.CurrentScope()
		sawSelf = ok && cur == s.ID()
		return RenderReturn{Kind: RenderReady, Root: s.Placeholder()}
	}), "Introspect")

	rt.RunScope(id)

	if !sawSelf {
		t.Error("CurrentScope did not name the rendering scope")
	}
	if _, ok := rt.CurrentScope(); ok {
		t.Error("scope stack not empty after render")
	}
}
