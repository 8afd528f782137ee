package traversal

import (
	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

// AddN creates a single new node of label with the given properties and
// yields it as the pipeline's sole element. Valid only in a write
// traversal.
func (t *Traversal) AddN(label string, props types.PropertyMap) *Traversal {
	w, err := t.writeTxn()
	if err != nil {
		return t.chain(seqErr(err))
	}
	n := &types.Node{ID: types.NewID(), Label: label, Properties: props}
	if err := w.PutNode(n); err != nil {
		return t.chain(seqErr(err))
	}
	return t.chain(FromSlice([]TraversalValue{NodeValue(n)}))
}

// AddEdge creates an edge from every node in `from` to every node in `to`
// (the Cartesian product when either side is plural), labeled label, with
// the given properties, yielding each created edge. Valid only in a write
// traversal.
func (t *Traversal) AddEdge(label string, props types.PropertyMap, unique bool, from, to []types.ID) *Traversal {
	w, err := t.writeTxn()
	if err != nil {
		return t.chain(seqErr(err))
	}
	return t.chain(func(yield func(Item) bool) {
		for _, f := range from {
			for _, tt := range to {
				e, err := w.AddEdge(f, tt, label, props, unique)
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
	})
}

// InsertV inserts a single vector of label with the given data/properties
// into the HNSW index, yielding it. Valid only in a write traversal.
func (t *Traversal) InsertV(label string, data []float64, props types.PropertyMap) *Traversal {
	w, err := t.writeTxn()
	if err != nil {
		return t.chain(seqErr(err))
	}
	vec := &types.HVector{ID: types.NewID(), Label: label, Data: data, Properties: props}
	if err := t.vec.Insert(w, vec); err != nil {
		return t.chain(seqErr(err))
	}
	return t.chain(FromSlice([]TraversalValue{VectorValue(vec)}))
}

// Update rewrites the properties of every incoming Node/Edge/Vector,
// merging patch on top of its existing properties (preserving fields not
// named in patch) and persisting the result. Valid only in a write
// traversal.
func (t *Traversal) Update(patch types.PropertyMap) *Traversal {
	w, err := t.writeTxn()
	if err != nil {
		return t.chain(seqErr(err))
	}
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			switch it.Value.Kind {
			case KindNode:
				n := *it.Value.Node
				n.Properties = n.Properties.Merge(patch)
				if err := w.PutNode(&n); err != nil {
					return yield(Fail(err))
				}
				return yield(OK(NodeValue(&n)))
			case KindEdge:
				e := *it.Value.Edge
				e.Properties = e.Properties.Merge(patch)
				// Edge endpoints are immutable; only properties move, so
				// re-encoding through AddEdge-style adjacency writes isn't
				// needed, only the primary record.
				if err := w.PutEdgeProperties(e.ID, e.Properties); err != nil {
					return yield(Fail(err))
				}
				return yield(OK(EdgeValue(&e)))
			case KindVector:
				v := *it.Value.Vector
				v.Properties = v.Properties.Merge(patch)
				if err := w.PutVector(&v); err != nil {
					return yield(Fail(err))
				}
				return yield(OK(VectorValue(&v)))
			default:
				return yield(Fail(herrors.New(herrors.SchemaViolation, "update: element is not a node, edge, or vector")))
			}
		})
	})
}

// Drop deletes every incoming Node/Edge/Vector. Dropping a node cascades
// its incident edges, per storage.WriteTxn.DropNode. Valid only in a
// write traversal.
func (t *Traversal) Drop() *Traversal {
	w, err := t.writeTxn()
	if err != nil {
		return t.chain(seqErr(err))
	}
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		upstream(func(it Item) bool {
			if it.Err != nil {
				return yield(it)
			}
			switch it.Value.Kind {
			case KindNode:
				if err := w.DropNode(it.Value.Node.ID); err != nil {
					return yield(Fail(err))
				}
			case KindEdge:
				if err := w.DropEdge(it.Value.Edge.ID); err != nil {
					return yield(Fail(err))
				}
			case KindVector:
				if err := w.DeleteVector(it.Value.Vector.ID); err != nil {
					return yield(Fail(err))
				}
			default:
				return yield(Fail(herrors.New(herrors.SchemaViolation, "drop: element is not a node, edge, or vector")))
			}
			return yield(OK(Empty))
		})
	})
}
