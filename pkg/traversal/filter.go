package traversal

import "github.com/cuemby/helixdb/pkg/types"

// FilterRef keeps only elements for which pred returns true without
// mutating them; errors upstream propagate, pred is never called on them.
func (t *Traversal) FilterRef(pred func(TraversalValue) bool) *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			if !pred(it.Value) {
				return true
			}
			return yield(it)
		})
	})
}

// FilterMut keeps only elements for which transform returns a value and
// ok=true, substituting the transformed value for the original (used when
// a filter predicate needs to normalize the element before downstream
// stages see it, e.g. decoding a nested property).
func (t *Traversal) FilterMut(transform func(TraversalValue) (TraversalValue, bool)) *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			v, ok := transform(it.Value)
			if !ok {
				return true
			}
			return yield(OK(v))
		})
	})
}

// Where keeps elements whose named property compares against value using
// cmp. Elements that lack the property, or for which cmp reports false,
// are dropped without an error (cmp itself decides comparability; Where
// just wires the property lookup).
func (t *Traversal) Where(property string, cmp func(actual types.Value, want types.Value) bool, want types.Value) *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			actual, ok := it.Value.GetProperty(property)
			if !ok {
				return true
			}
			if !cmp(actual, want) {
				return true
			}
			return yield(it)
		})
	})
}

// Dedup removes duplicate elements, preserving the first occurrence by id
// (elements without an id, e.g. scalar Values, are deduplicated by Equal).
func (t *Traversal) Dedup() *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		seenIDs := make(map[types.ID]bool)
		var seenValues []types.Value
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			if id, ok := it.Value.ID(); ok {
				if seenIDs[id] {
					return true
				}
				seenIDs[id] = true
				return yield(it)
			}
			if it.Value.Kind == KindValue {
				for _, v := range seenValues {
					if v.Equal(it.Value.Value) {
						return true
					}
				}
				seenValues = append(seenValues, it.Value.Value)
			}
			return yield(it)
		})
	})
}

// Range keeps elements in the zero-based, half-open interval [skip,
// skip+take).
func (t *Traversal) Range(skip, take int) *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		i := 0
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			idx := i
			i++
			if idx < skip {
				return true
			}
			if idx >= skip+take {
				return false
			}
			return yield(it)
		})
	})
}

// Count drains the upstream pipeline and yields a single Count value. The
// first error encountered short-circuits and is yielded instead.
func (t *Traversal) Count() *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		n := 0
		var failed error
		upstream(func(it Item) bool {
			if it.Err != nil {
				failed = it.Err
				return false
			}
			n++
			return true
		})
		if failed != nil {
			yield(Fail(failed))
			return
		}
		yield(OK(CountValue(n)))
	})
}
