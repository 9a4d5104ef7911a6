package runtime

import (
	"sort"
	"sync"

	uiruntime "github.com/wippyai/ui-runtime"
)

// DirtyScope names one scope that needs re-rendering, ordered by height so
// ancestors render before descendants within a work batch: a child cannot be
// rendered correctly before its parent has produced fresh props for it.
type DirtyScope struct {
	Height uint32
	ID     uiruntime.ScopeID
}

func (d DirtyScope) less(o DirtyScope) bool {
	if d.Height != o.Height {
		return d.Height < o.Height
	}
	return d.ID < o.ID
}

// dirtySet keeps DirtyScope entries sorted ascending by (height, id).
// Safe for concurrent producers; the render loop is the single consumer.
type dirtySet struct {
	mu      sync.Mutex
	entries []DirtyScope
}

// Insert adds an entry. Duplicate inserts are idempotent.
func (s *dirtySet) Insert(d DirtyScope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.search(d)
	if i < len(s.entries) && s.entries[i] == d {
		return
	}
	s.entries = append(s.entries, DirtyScope{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = d
}

// Remove deletes an entry if present.
func (s *dirtySet) Remove(d DirtyScope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.search(d)
	if i < len(s.entries) && s.entries[i] == d {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
}

// Pop removes and returns the lowest entry.
func (s *dirtySet) Pop() (DirtyScope, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return DirtyScope{}, false
	}
	d := s.entries[0]
	s.entries = s.entries[1:]
	return d, true
}

// Contains reports whether the exact entry is present.
func (s *dirtySet) Contains(d DirtyScope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.search(d)
	return i < len(s.entries) && s.entries[i] == d
}

// Len returns the number of pending entries.
func (s *dirtySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *dirtySet) search(d DirtyScope) int {
	return sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].less(d)
	})
}

// MarkDirty queues a scope for re-rendering. Unknown identifiers are ignored:
// external state changes can race scope removal. Safe for concurrent use.
func (rt *Runtime) MarkDirty(id uiruntime.ScopeID) {
	s, ok := rt.Scope(id)
	if !ok {
		return
	}
	rt.dirty.Insert(DirtyScope{Height: s.height, ID: id})
}

// IsDirty reports whether a scope is queued for re-rendering.
func (rt *Runtime) IsDirty(id uiruntime.ScopeID) bool {
	s, ok := rt.Scope(id)
	if !ok {
		return false
	}
	return rt.dirty.Contains(DirtyScope{Height: s.height, ID: id})
}

// DirtyCount returns the number of scopes queued for re-rendering.
func (rt *Runtime) DirtyCount() int {
	return rt.dirty.Len()
}
