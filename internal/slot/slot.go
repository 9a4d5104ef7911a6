// Package slot provides a generic slot table with free-list key reuse.
//
// Keys are stable for the lifetime of an entry: removing one entry never moves
// or re-keys another. A removed key returns to the free list and may be handed
// out again by a later Insert or Reserve, but never while its entry is live.
// Key 0 is reserved and always invalid.
package slot

// Key identifies an entry in a Table. The zero Key is never valid.
type Key uint32

// Table is a slot-allocated table. It is not safe for concurrent use;
// callers that share a table across goroutines must synchronize access.
type Table[T any] struct {
	entries  []entry[T]
	freeList []Key
	live     int
}

type entry[T any] struct {
	value T
	state entryState
}

type entryState uint8

const (
	stateFree entryState = iota
	stateReserved
	stateLive
)

// New creates an empty table with room for hint entries.
func New[T any](hint int) *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, hint),
		freeList: make([]Key, 0, 16),
	}
}

// Insert stores a value and returns its key.
func (t *Table[T]) Insert(v T) Key {
	k := t.Reserve()
	t.Commit(k, v)
	return k
}

// Reserve hands out a key without storing a value. The key is not visible to
// Get until Commit is called; Abort returns it to the free list. This mirrors
// a vacant-entry pattern: callers can learn the key a value WILL have before
// deciding whether to store it.
func (t *Table[T]) Reserve() Key {
	if n := len(t.freeList); n > 0 {
		k := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[k-1].state = stateReserved
		return k
	}

	t.entries = append(t.entries, entry[T]{state: stateReserved})
	return Key(len(t.entries))
}

// Commit stores a value under a previously reserved key.
func (t *Table[T]) Commit(k Key, v T) {
	e := t.entry(k)
	if e == nil || e.state != stateReserved {
		panic("slot: commit of a key that was not reserved")
	}
	e.value = v
	e.state = stateLive
	t.live++
}

// Abort releases a reserved key without storing a value.
func (t *Table[T]) Abort(k Key) {
	e := t.entry(k)
	if e == nil || e.state != stateReserved {
		panic("slot: abort of a key that was not reserved")
	}
	e.state = stateFree
	t.freeList = append(t.freeList, k)
}

// Get retrieves a value by key.
func (t *Table[T]) Get(k Key) (T, bool) {
	var zero T
	e := t.entry(k)
	if e == nil || e.state != stateLive {
		return zero, false
	}
	return e.value, true
}

// Remove deletes an entry and returns its value. The key becomes reusable.
func (t *Table[T]) Remove(k Key) (T, bool) {
	var zero T
	e := t.entry(k)
	if e == nil || e.state != stateLive {
		return zero, false
	}

	v := e.value
	e.value = zero
	e.state = stateFree
	t.freeList = append(t.freeList, k)
	t.live--
	return v, true
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	return t.live
}

// Each calls fn for every live entry until fn returns false.
func (t *Table[T]) Each(fn func(Key, T) bool) {
	for i := range t.entries {
		if t.entries[i].state != stateLive {
			continue
		}
		if !fn(Key(i+1), t.entries[i].value) {
			return
		}
	}
}

func (t *Table[T]) entry(k Key) *entry[T] {
	if k == 0 || int(k) > len(t.entries) {
		return nil
	}
	return &t.entries[k-1]
}
