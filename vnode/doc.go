// Package vnode defines the output tree produced by a render.
//
// A VNode tree is pure data: it has no behavior and no back-references into
// the engine. The diffing layer consumes trees from two consecutive renders
// of the same scope and computes mutations; this package deliberately knows
// nothing about diffing.
//
// # Ownership
//
// Trees are arena-allocated. A tree returned by a render belongs to the
// rendering scope's current frame and is invalidated by that scope's next
// render. Code that needs to keep node data longer must copy it out.
package vnode
