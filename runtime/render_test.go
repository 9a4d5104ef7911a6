package runtime

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/errors"
	"github.com/wippyai/ui-runtime/scheduler"
	"github.com/wippyai/ui-runtime/vnode"
)

// counterProps renders a labelled counter; tests mutate Count between renders.
type counterProps struct {
	Label string
	Count int
}

func (p *counterProps) Render(s *Scope) RenderReturn {
	root := s.Element("div",
		[]vnode.Attr{s.Attr("class", "counter")},
		s.Text(fmt.Sprintf("%s: %d", p.Label, p.Count)),
	)
	return RenderReturn{Kind: RenderReady, Root: root}
}

func newTestRuntime() *Runtime {
	return New(scheduler.New())
}

func TestRunScopeProducesTree(t *testing.T) {
	rt := newTestRuntime()
	props := &counterProps{Label: "clicks", Count: 1}
	id := rt.NewScope(props, "Counter")

	out := rt.RunScope(id)
	if out.Kind != RenderReady {
		t.Fatalf("Kind = %d, want RenderReady", out.Kind)
	}

	want := &vnode.VNode{
		Kind:  vnode.KindElement,
		Tag:   "div",
		Attrs: []vnode.Attr{{Name: "class", Value: "counter"}},
		Children: []*vnode.VNode{
			{Kind: vnode.KindText, Text: "clicks: 1"},
		},
	}
	if diff := cmp.Diff(want, out.Root); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestRerenderPublishesFreshTree(t *testing.T) {
	rt := newTestRuntime()
	props := &counterProps{Label: "n", Count: 1}
	id := rt.NewScope(props, "Counter")

	t1 := rt.RunScope(id)
	t1Text := t1.Root.Children[0]

	props.Count = 2
	rt.MarkDirty(id)
	t2 := rt.RunScope(id)

	if t2.Root == t1.Root {
		t.Error("second render returned the first render's arena address")
	}
	if t2.Root.Children[0].Text != "n: 2" {
		t.Errorf("second tree text = %q", t2.Root.Children[0].Text)
	}

	s, _ := rt.Scope(id)
	if s.RenderCount() != 2 {
		t.Errorf("render counter = %d, want 2", s.RenderCount())
	}

	// The double buffer keeps the first tree intact for one more render (the
	// diffing layer compares it against the second). The third render recycles
	// its frame and must wipe it.
	rt.RunScope(id)
	if t1Text.Text != "" {
		t.Errorf("first render's bytes survived frame recycling: %q", t1Text.Text)
	}
}

func TestRunScopeRemovesOwnDirtyEntry(t *testing.T) {
	rt := newTestRuntime()
	id := rt.NewScope(&counterProps{}, "Counter")

	rt.MarkDirty(id)
	if !rt.IsDirty(id) {
		t.Fatal("scope not marked dirty")
	}

	rt.RunScope(id)
	if rt.IsDirty(id) {
		t.Error("successful render left its own dirty entry behind")
	}
}

func TestRunScopeTornDownPanics(t *testing.T) {
	rt := newTestRuntime()
	id := rt.NewScope(&counterProps{}, "Counter")
	rt.RunScope(id)
	rt.RemoveScope(id)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic rendering a removed scope")
		}
		if _, ok := r.(*errors.Error); !ok {
			t.Fatalf("panic value %T, want *errors.Error", r)
		}
	}()
	rt.RunScope(id)
}

// panicProps aborts mid-render after allocating into the write frame.
type panicProps struct {
	renders int
}

func (p *panicProps) Render(s *Scope) RenderReturn {
	p.renders++
	if p.renders == 2 {
		s.Text("partial write")
		panic("component exploded")
	}
	return RenderReturn{Kind: RenderReady, Root: s.Text("ok")}
}

func TestRenderPanicDoesNotCorruptFrames(t *testing.T) {
	rt := newTestRuntime()
	props := &panicProps{}
	id := rt.NewScope(props, "Flaky")

	t1 := rt.RunScope(id)
	if t1.Root.Text != "ok" {
		t.Fatalf("first render text = %q", t1.Root.Text)
	}

	func() {
		defer func() { recover() }()
		rt.RunScope(id)
		t.Fatal("expected the component panic to propagate")
	}()

	// The failed attempt never published: the first tree is still current
	// and the render counter unchanged.
	s, _ := rt.Scope(id)
	if s.RenderCount() != 1 {
		t.Errorf("render counter = %d after abandoned render, want 1", s.RenderCount())
	}
	if got := s.CurrentFrame().Root(); got != t1 {
		t.Error("abandoned render replaced the published root")
	}

	// The next attempt succeeds over the partial writes.
	t3 := rt.RunScope(id)
	if t3.Root.Text != "ok" {
		t.Errorf("recovery render text = %q", t3.Root.Text)
	}
}

func TestBatchProcessingDepthOrder(t *testing.T) {
	rt := newTestRuntime()
	rec := &renderRecorder{}

	// Two roots at depth 0; one child at depth 1 under the first root; one
	// grandchild at depth 2 under the child.
	rootA := rt.NewScope(&recordingProps{rec: rec, rt: rt, mount: 2}, "RootA")
	rootB := rt.NewScope(&recordingProps{rec: rec, rt: rt}, "RootB")

	rt.RunScope(rootA)
	child := rec.mounted[0]
	rt.RunScope(child) // mounts the grandchild
	grandchild := rec.mounted[1]
	rt.RunScope(grandchild)
	rt.RunScope(rootB)

	heights := func(ids []uiruntime.ScopeID) []uint32 {
		var hs []uint32
		for _, id := range ids {
			s, _ := rt.Scope(id)
			hs = append(hs, s.Height())
		}
		return hs
	}
	if diff := cmp.Diff([]uint32{0, 1, 2}, heights([]uiruntime.ScopeID{rootA, child, grandchild})); diff != "" {
		t.Fatalf("mount heights wrong (-want +got):\n%s", diff)
	}

	// Mark dirty in scrambled depth order [2,0,1,0].
	rec.order = nil
	rt.MarkDirty(grandchild)
	rt.MarkDirty(rootA)
	rt.MarkDirty(child)
	rt.MarkDirty(rootB)

	rt.ProcessDirty()

	got := heights(rec.order)
	if diff := cmp.Diff([]uint32{0, 0, 1, 2}, got); diff != "" {
		t.Errorf("batch order by depth wrong (-want +got):\n%s", diff)
	}
}

// renderRecorder tracks render order and mounted children across components.
type renderRecorder struct {
	order   []uiruntime.ScopeID
	mounted []uiruntime.ScopeID
}

// recordingProps records each render and mounts `mount` children chained one
// level deeper on its first render.
type recordingProps struct {
	rec   *renderRecorder
	rt    *Runtime
	mount int
}

func (p *recordingProps) Render(s *Scope) RenderReturn {
	p.rec.order = append(p.rec.order, s.ID())
	if s.NeedsRender() && p.mount > 0 {
		id := p.rt.NewScope(&recordingProps{rec: p.rec, rt: p.rt, mount: p.mount - 1}, "Nested")
		p.rec.mounted = append(p.rec.mounted, id)
	}
	return RenderReturn{Kind: RenderReady, Root: s.Placeholder()}
}
