package traversal

// Out steps from each incoming node to its adjacent nodes across outgoing
// edges, optionally filtered to one label (pass "" for all labels).
func (t *Traversal) Out(label string) *Traversal {
	return t.chain(t.step(func(v TraversalValue) Seq {
		if v.Kind != KindNode {
			return seqErr(errNotANode("out"))
		}
		entries, err := t.txn.OutEdges(v.Node.ID, label)
		if err != nil {
			return seqErr(err)
		}
		return func(yield func(Item) bool) {
			for _, e := range entries {
				n, err := t.txn.GetNode(e.NeighborID)
				if err != nil {
					if !yield(Fail(err)) {
						return
					}
					continue
				}
				if !yield(OK(NodeValue(n))) {
					return
				}
			}
		}
	}))
}

// OutE steps from each incoming node to its outgoing edges.
func (t *Traversal) OutE(label string) *Traversal {
	return t.chain(t.step(func(v TraversalValue) Seq {
		if v.Kind != KindNode {
			return seqErr(errNotANode("out_e"))
		}
		entries, err := t.txn.OutEdges(v.Node.ID, label)
		if err != nil {
			return seqErr(err)
		}
		return func(yield func(Item) bool) {
			for _, ae := range entries {
				e, err := t.txn.GetEdge(ae.EdgeID)
				if err != nil {
					if !yield(Fail(err)) {
						return
					}
					continue
				}
				if !yield(OK(EdgeValue(e))) {
					return
				}
			}
		}
	}))
}

// In steps from each incoming node to its adjacent nodes across incoming
// edges.
func (t *Traversal) In(label string) *Traversal {
	return t.chain(t.step(func(v TraversalValue) Seq {
		if v.Kind != KindNode {
			return seqErr(errNotANode("in"))
		}
		entries, err := t.txn.InEdges(v.Node.ID, label)
		if err != nil {
			return seqErr(err)
		}
		return func(yield func(Item) bool) {
			for _, e := range entries {
				n, err := t.txn.GetNode(e.NeighborID)
				if err != nil {
					if !yield(Fail(err)) {
						return
					}
					continue
				}
				if !yield(OK(NodeValue(n))) {
					return
				}
			}
		}
	}))
}

// InE steps from each incoming node to its incoming edges.
func (t *Traversal) InE(label string) *Traversal {
	return t.chain(t.step(func(v TraversalValue) Seq {
		if v.Kind != KindNode {
			return seqErr(errNotANode("in_e"))
		}
		entries, err := t.txn.InEdges(v.Node.ID, label)
		if err != nil {
			return seqErr(err)
		}
		return func(yield func(Item) bool) {
			for _, ae := range entries {
				e, err := t.txn.GetEdge(ae.EdgeID)
				if err != nil {
					if !yield(Fail(err)) {
						return
					}
					continue
				}
				if !yield(OK(EdgeValue(e))) {
					return
				}
			}
		}
	}))
}

// FromN steps from each incoming edge to its source node.
func (t *Traversal) FromN() *Traversal {
	return t.chain(t.step(func(v TraversalValue) Seq {
		if v.Kind != KindEdge {
			return seqErr(errNotAnEdge("from_n"))
		}
		n, err := t.txn.GetNode(v.Edge.From)
		if err != nil {
			return seqErr(err)
		}
		return FromSlice([]TraversalValue{NodeValue(n)})
	}))
}

// ToN steps from each incoming edge to its destination node.
func (t *Traversal) ToN() *Traversal {
	return t.chain(t.step(func(v TraversalValue) Seq {
		if v.Kind != KindEdge {
			return seqErr(errNotAnEdge("to_n"))
		}
		n, err := t.txn.GetNode(v.Edge.To)
		if err != nil {
			return seqErr(err)
		}
		return FromSlice([]TraversalValue{NodeValue(n)})
	}))
}

// FromV steps from each incoming edge to its source vector.
func (t *Traversal) FromV() *Traversal {
	return t.chain(t.step(func(v TraversalValue) Seq {
		if v.Kind != KindEdge {
			return seqErr(errNotAnEdge("from_v"))
		}
		vec, err := t.txn.GetVector(v.Edge.From)
		if err != nil {
			return seqErr(err)
		}
		return FromSlice([]TraversalValue{VectorValue(vec)})
	}))
}

// ToV steps from each incoming edge to its destination vector.
func (t *Traversal) ToV() *Traversal {
	return t.chain(t.step(func(v TraversalValue) Seq {
		if v.Kind != KindEdge {
			return seqErr(errNotAnEdge("to_v"))
		}
		vec, err := t.txn.GetVector(v.Edge.To)
		if err != nil {
			return seqErr(err)
		}
		return FromSlice([]TraversalValue{VectorValue(vec)})
	}))
}

// step wraps t.Seq with expand, a function producing the downstream Seq
// for one upstream element; this is the shared shape behind every
// adjacency-following operator (out/out_e/in/in_e/from_n/to_n/from_v/to_v).
// An upstream error is re-yielded unexpanded, so it keeps propagating.
func (t *Traversal) step(expand func(TraversalValue) Seq) Seq {
	upstream := t.Seq
	return func(yield func(Item) bool) {
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			ok := true
			expand(it.Value)(func(inner Item) bool {
				ok = yield(inner)
				return ok
			})
			return ok
		})
	}
}
