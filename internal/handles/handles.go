// Package handles maps Go values to integer handles that can be stored in
// native memory.
//
// Native code cannot hold Go pointers. When a native library calls back into
// Go with an opaque context argument, that argument is a handle registered
// here, and the callback uses it to find the Go value it should act on.
package handles

import "sync"

// Table holds values of type T keyed by handle. The zero value is ready to
// use. Handles are never reused and 0 is never issued, so a zero context from
// native code always misses.
//
// Thread-safe.
type Table[T any] struct {
	mu      sync.RWMutex
	entries map[uintptr]T
	last    uintptr
}

// Register stores v and returns its handle. v stays reachable until Release.
func (t *Table[T]) Register(v T) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries == nil {
		t.entries = make(map[uintptr]T)
	}
	t.last++
	t.entries[t.last] = v
	return t.last
}

// Lookup returns the value for h and whether it is registered.
func (t *Table[T]) Lookup(h uintptr) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[h]
	return v, ok
}

// Release forgets h. Releasing an unknown handle is a no-op.
func (t *Table[T]) Release(h uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, h)
}

// Len returns the number of registered handles. Useful for checking that
// every population pass released its handle.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
