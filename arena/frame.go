package arena

import "github.com/wippyai/ui-runtime/vnode"

const nodeChunkSize = 64

// Frame is one of the two memory regions owned by a scope. It holds a byte
// arena for string payloads, a node slab for tree nodes, and the slot for the
// most recently published output-tree root.
type Frame struct {
	bump  *Bump
	nodes nodeSlab
	root  any
}

// Bump returns the frame's byte arena, or nil before first initialization.
func (f *Frame) Bump() *Bump {
	return f.bump
}

// AllocNode allocates a zeroed node from the frame. The pointer is stable
// until the frame is reset.
func (f *Frame) AllocNode() *vnode.VNode {
	return f.nodes.alloc()
}

// SetRoot publishes the frame's output-tree root.
func (f *Frame) SetRoot(root any) {
	f.root = root
}

// Root returns the published root, or nil if this frame never completed a render.
func (f *Frame) Root() any {
	return f.root
}

// AllocatedBytes returns the payload bytes allocated since the last reset.
// Used as the capacity hint when initializing the sibling frame.
func (f *Frame) AllocatedBytes() int {
	if f.bump == nil {
		return 0
	}
	return f.bump.AllocatedBytes()
}

// Reset clears the frame for reuse: the byte arena is zeroed and rewound, all
// slab nodes are zeroed, and the published root is dropped. Every reference
// into the frame is dead after Reset.
func (f *Frame) Reset() {
	if f.bump != nil {
		f.bump.Reset()
	}
	f.nodes.reset()
	f.root = nil
}

// initialized reports whether the frame's byte arena has been set up.
func (f *Frame) initialized() bool {
	return f.bump != nil
}

// nodeSlab allocates VNodes from fixed-size chunks so pointers never move.
type nodeSlab struct {
	chunks [][]vnode.VNode
	cur    int
}

func (s *nodeSlab) alloc() *vnode.VNode {
	if len(s.chunks) == 0 {
		s.chunks = append(s.chunks, make([]vnode.VNode, 0, nodeChunkSize))
	}

	chunk := &s.chunks[s.cur]
	if len(*chunk) == cap(*chunk) {
		if s.cur+1 < len(s.chunks) {
			s.cur++
		} else {
			s.chunks = append(s.chunks, make([]vnode.VNode, 0, nodeChunkSize))
			s.cur = len(s.chunks) - 1
		}
		chunk = &s.chunks[s.cur]
	}

	*chunk = append(*chunk, vnode.VNode{})
	return &(*chunk)[len(*chunk)-1]
}

func (s *nodeSlab) reset() {
	for i := range s.chunks {
		used := s.chunks[i]
		for j := range used {
			used[j] = vnode.VNode{}
		}
		s.chunks[i] = used[:0]
	}
	s.cur = 0
}

// Pair is a scope's double buffer: one frame is current (published, visible to
// consumers), the other is the write target for the next render.
//
// Invariant: nothing outside the render step holds references into the write
// target. Cycle resets the target, killing any latent reference into it, and
// Publish flips which frame is current after a successful render.
type Pair struct {
	frames  [2]Frame
	current uint8
}

// NewPair creates a pair with both frames uninitialized. Arenas are sized
// lazily on first cycle so unrendered scopes cost nothing.
func NewPair() *Pair {
	return &Pair{}
}

// Current returns the published frame.
func (p *Pair) Current() *Frame {
	return &p.frames[p.current]
}

// Target returns the write target (the non-current frame).
func (p *Pair) Target() *Frame {
	return &p.frames[p.current^1]
}

// Cycle prepares the write target for a render and returns it.
//
// Fast path: an initialized target is rewound in place. Slow path: a fresh
// target gets a byte arena sized to the current frame's last-used byte count,
// amortizing allocation across renders of similar output size.
func (p *Pair) Cycle() *Frame {
	target := p.Target()
	if target.initialized() {
		target.Reset()
	} else {
		target.root = nil
		target.bump = NewBump(p.Current().AllocatedBytes())
	}
	return target
}

// Publish makes the write target the current frame. Call only after the
// target holds a completed render result.
func (p *Pair) Publish() {
	p.current ^= 1
}
