// Package arena provides bump allocation and the per-scope dual-frame buffer.
//
// Each scope owns a Pair of Frames. Renders write into the non-current frame;
// a successful render publishes it, flipping which frame consumers see. The
// frame that was current becomes the next write target and is fully reset
// before reuse, so references into it cannot read stale data: they observe
// zeroed memory.
//
// Allocation is chunked rather than contiguous. Growing the arena adds a new
// chunk instead of moving existing memory, so pointers and slices handed out
// by a frame stay valid for the whole render they were allocated in.
package arena
