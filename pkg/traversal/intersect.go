package traversal

// Intersect keeps only elements of the upstream pipeline whose derived
// sub-traversal (built by calling sub on a fresh Traversal rooted at that
// element) yields at least one element.
func (t *Traversal) Intersect(sub func(elem TraversalValue) *Traversal) *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			branch := sub(it.Value)
			_, found, err := First(branch.Seq)
			if err != nil {
				return yield(Fail(err))
			}
			if !found {
				return true
			}
			return yield(it)
		})
	})
}

// Exist drains seq until its first value, reporting whether any element
// was produced. A first-element error propagates rather than being
// treated as "no".
func Exist(seq Seq) (bool, error) {
	_, found, err := First(seq)
	return found, err
}
