package arena

import (
	"unsafe"

	"github.com/wippyai/ui-runtime/errors"
)

const (
	minChunkSize = 256

	// maxAllocSize caps a single allocation. A request past it means a
	// runaway payload, not a legitimately large render.
	maxAllocSize = 1 << 30
)

// Bump is a chunked bump allocator for raw bytes.
//
// Allocations are handed out sequentially from fixed chunks and freed all at
// once by Reset. Growing adds a new chunk rather than reallocating, so byte
// slices returned by Alloc stay valid until Reset. Reset zeroes every byte
// that was handed out: stale references observe cleared memory instead of
// data from an unrelated later allocation.
type Bump struct {
	chunks    [][]byte
	cur       int // active chunk index
	off       int // offset into active chunk
	allocated int // bytes handed out since last Reset
}

// NewBump creates an allocator whose first chunk holds capacity bytes.
// A zero capacity defers the first chunk until the first Alloc.
func NewBump(capacity int) *Bump {
	b := &Bump{}
	if capacity > 0 {
		b.chunks = [][]byte{make([]byte, capacity)}
	}
	return b
}

// Alloc returns a zeroed byte slice of length n from the arena. Requests
// exceeding the per-allocation cap are a fatal allocation error.
func (b *Bump) Alloc(n int) []byte {
	if n < 0 {
		panic("arena: negative allocation")
	}
	if n > maxAllocSize {
		panic(errors.AllocationFailed(errors.PhaseRender, n))
	}
	if n == 0 {
		return nil
	}

	if len(b.chunks) == 0 {
		b.chunks = append(b.chunks, make([]byte, chunkSizeFor(n, minChunkSize)))
	}

	chunk := b.chunks[b.cur]
	if b.off+n > len(chunk) {
		b.grow(n)
		chunk = b.chunks[b.cur]
	}

	s := chunk[b.off : b.off+n : b.off+n]
	b.off += n
	b.allocated += n
	return s
}

// AllocString copies s into the arena and returns a view over the arena bytes.
// The view is invalidated (and zeroed) by Reset.
func (b *Bump) AllocString(s string) string {
	if len(s) == 0 {
		return ""
	}
	dst := b.Alloc(len(s))
	copy(dst, s)
	return unsafe.String(&dst[0], len(dst))
}

// Reset rewinds the allocator and zeroes all handed-out bytes.
// Chunk memory is retained for reuse.
func (b *Bump) Reset() {
	for i := 0; i <= b.cur && i < len(b.chunks); i++ {
		used := b.chunks[i]
		if i == b.cur {
			used = used[:b.off]
		}
		clear(used)
	}
	b.cur = 0
	b.off = 0
	b.allocated = 0
}

// AllocatedBytes returns the bytes handed out since the last Reset.
func (b *Bump) AllocatedBytes() int {
	return b.allocated
}

// Capacity returns the total bytes held across all chunks.
func (b *Bump) Capacity() int {
	total := 0
	for _, c := range b.chunks {
		total += len(c)
	}
	return total
}

func (b *Bump) grow(n int) {
	// Advance to an existing chunk if a later one fits.
	for b.cur+1 < len(b.chunks) {
		b.cur++
		b.off = 0
		if n <= len(b.chunks[b.cur]) {
			return
		}
	}

	last := len(b.chunks[len(b.chunks)-1])
	b.chunks = append(b.chunks, make([]byte, chunkSizeFor(n, last*2)))
	b.cur = len(b.chunks) - 1
	b.off = 0
}

func chunkSizeFor(n, want int) int {
	if want < minChunkSize {
		want = minChunkSize
	}
	if n > want {
		return n
	}
	return want
}
