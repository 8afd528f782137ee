// Package arena implements a request-scoped bump allocator for traversal
// intermediates (decoded nodes, edges, vectors, property maps) so a query
// that produces hundreds of short-lived values pays for one growable
// buffer instead of hundreds of individual heap allocations.
//
// Handles are generation-guarded: once Reset is called (at the end of a
// request), every Handle minted before the reset reports !ok from Get,
// matching the use-after-reset guard in the traversal runtime this is
// grounded on.
package arena

// Handle references a value allocated in an Arena. It is only valid for
// the generation of the arena it was allocated from.
type Handle[T any] struct {
	index int
	gen   uint64
}

// Arena is a growable, generation-stamped slice of T with an explicit
// free-list: Free returns a slot to be reused by the next Alloc in the
// same generation instead of growing the backing slice.
type Arena[T any] struct {
	gen    uint64
	values []T
	free   []int
}

// New returns an empty Arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores v, reusing a freed slot if one is available, and returns a
// Handle valid for the arena's current generation.
func (a *Arena[T]) Alloc(v T) Handle[T] {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.values[idx] = v
		return Handle[T]{index: idx, gen: a.gen}
	}
	a.values = append(a.values, v)
	return Handle[T]{index: len(a.values) - 1, gen: a.gen}
}

// Get resolves h against the arena's current state. ok is false if h was
// minted in a prior generation (the arena has since been Reset) or is
// otherwise out of range.
func (a *Arena[T]) Get(h Handle[T]) (v T, ok bool) {
	if h.gen != a.gen || h.index < 0 || h.index >= len(a.values) {
		return v, false
	}
	return a.values[h.index], true
}

// Free releases h's slot back to the free-list. A stale h (wrong
// generation or out of range) is a no-op.
func (a *Arena[T]) Free(h Handle[T]) {
	if h.gen != a.gen || h.index < 0 || h.index >= len(a.values) {
		return
	}
	var zero T
	a.values[h.index] = zero
	a.free = append(a.free, h.index)
}

// Reset drops every stored value, rewinds the backing slice to zero
// length, and advances the generation counter, invalidating every Handle
// minted so far. Called once per request, after the response is emitted.
func (a *Arena[T]) Reset() {
	a.values = a.values[:0]
	a.free = a.free[:0]
	a.gen++
}

// Len reports the number of live (non-freed) entries.
func (a *Arena[T]) Len() int {
	return len(a.values) - len(a.free)
}
