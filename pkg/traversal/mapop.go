package traversal

// Map applies fn to every element, substituting its result. fn returning
// an error Item lets a mapping function fail an individual element without
// aborting the whole pipeline.
func (t *Traversal) Map(fn func(TraversalValue) (TraversalValue, error)) *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			v, err := fn(it.Value)
			if err != nil {
				return yield(Fail(err))
			}
			return yield(OK(v))
		})
	})
}
