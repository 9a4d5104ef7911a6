package arena

import (
	"testing"

	"github.com/wippyai/ui-runtime/vnode"
)

func TestPairCycleAndPublish(t *testing.T) {
	p := NewPair()

	first := p.Current()
	target := p.Cycle()
	if target == first {
		t.Fatal("cycle returned the current frame as write target")
	}

	target.SetRoot("tree-1")
	p.Publish()

	if p.Current() != target {
		t.Fatal("publish did not flip the current frame")
	}
	if p.Current().Root() != "tree-1" {
		t.Fatalf("published root = %v", p.Current().Root())
	}
}

func TestCycleInvalidatesPreviousCurrent(t *testing.T) {
	p := NewPair()

	// First render.
	f1 := p.Cycle()
	s := f1.Bump().Alloc(8)
	copy(s, "SENTINEL")
	n := f1.AllocNode()
	n.Kind = vnode.KindText
	n.Text = "hello"
	f1.SetRoot(n)
	p.Publish()

	// Second render: f1 stays current, untouched.
	p.Cycle()
	p.Publish()

	// Third render targets f1 again; cycling must wipe it.
	p.Cycle()

	if string(s) == "SENTINEL" {
		t.Error("frame bytes survived a second cycle")
	}
	// Node content is zeroed even though the pointer is still reachable.
	if n.Text != "" || n.Kind != vnode.Kind(0) {
		t.Errorf("node content survived: kind=%d text=%q", n.Kind, n.Text)
	}
	if f1.Root() != nil {
		t.Error("published root survived cycle")
	}
}

func TestCycleCapacityHint(t *testing.T) {
	p := NewPair()

	f1 := p.Cycle()
	f1.Bump().Alloc(300)
	p.Publish()

	// The sibling frame is initialized lazily with the current frame's
	// last-used size.
	f2 := p.Cycle()
	if f2.Bump().Capacity() < 300 {
		t.Errorf("target capacity %d, want >= 300", f2.Bump().Capacity())
	}
}

func TestNodeSlabPointerStability(t *testing.T) {
	var f Frame

	first := f.AllocNode()
	first.Tag = "div"

	// Allocate past several chunk boundaries.
	for i := 0; i < nodeChunkSize*3; i++ {
		f.AllocNode()
	}

	if first.Tag != "div" {
		t.Error("node moved or was clobbered by slab growth")
	}
}

func TestFrameResetReusesNodeChunks(t *testing.T) {
	var f Frame

	for i := 0; i < nodeChunkSize+1; i++ {
		f.AllocNode()
	}
	chunksBefore := len(f.nodes.chunks)

	f.Reset()

	for i := 0; i < nodeChunkSize+1; i++ {
		f.AllocNode()
	}
	if len(f.nodes.chunks) != chunksBefore {
		t.Errorf("chunk count changed across reset: %d -> %d", chunksBefore, len(f.nodes.chunks))
	}
}
