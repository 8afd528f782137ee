package traversal

import (
	"github.com/cuemby/helixdb/pkg/types"
)

// NFromID starts a pipeline at a single node by id, failing with
// NodeNotFound if it doesn't exist.
func (t *Traversal) NFromID(id types.ID) *Traversal {
	n, err := t.txn.GetNode(id)
	if err != nil {
		return t.chain(seqErr(err))
	}
	return t.chain(FromSlice([]TraversalValue{NodeValue(n)}))
}

// NFromType starts a pipeline at every node of the given label.
func (t *Traversal) NFromType(label string) *Traversal {
	nodes, err := t.txn.NodesByLabel(label)
	if err != nil {
		return t.chain(seqErr(err))
	}
	vs := make([]TraversalValue, len(nodes))
	for i, n := range nodes {
		vs[i] = NodeValue(n)
	}
	return t.chain(FromSlice(vs))
}

// NFromIndex starts a pipeline at the node(s) whose indexed property
// equals value. label/property must name a declared secondary index;
// Unique resolves to at most one node, Index (multi) to any number.
func (t *Traversal) NFromIndex(label, property string, value types.Value, unique bool) *Traversal {
	if unique {
		id, found, err := t.txn.LookupUniqueIndex(label, property, value)
		if err != nil {
			return t.chain(seqErr(err))
		}
		if !found {
			return t.chain(FromSlice(nil))
		}
		n, err := t.txn.GetNode(id)
		if err != nil {
			return t.chain(seqErr(err))
		}
		return t.chain(FromSlice([]TraversalValue{NodeValue(n)}))
	}
	ids, err := t.txn.LookupMultiIndex(label, property, value)
	if err != nil {
		return t.chain(seqErr(err))
	}
	vs := make([]TraversalValue, 0, len(ids))
	for _, id := range ids {
		n, err := t.txn.GetNode(id)
		if err != nil {
			return t.chain(seqErr(err))
		}
		vs = append(vs, NodeValue(n))
	}
	return t.chain(FromSlice(vs))
}

// EFromID starts a pipeline at a single edge by id.
func (t *Traversal) EFromID(id types.ID) *Traversal {
	e, err := t.txn.GetEdge(id)
	if err != nil {
		return t.chain(seqErr(err))
	}
	return t.chain(FromSlice([]TraversalValue{EdgeValue(e)}))
}

// EFromType starts a pipeline at every edge of the given label.
func (t *Traversal) EFromType(label string) *Traversal {
	edges, err := t.txn.EdgesByLabel(label)
	if err != nil {
		return t.chain(seqErr(err))
	}
	vs := make([]TraversalValue, len(edges))
	for i, e := range edges {
		vs[i] = EdgeValue(e)
	}
	return t.chain(FromSlice(vs))
}

// VFromID starts a pipeline at a single vector by id.
func (t *Traversal) VFromID(id types.ID) *Traversal {
	v, err := t.txn.GetVector(id)
	if err != nil {
		return t.chain(seqErr(err))
	}
	return t.chain(FromSlice([]TraversalValue{VectorValue(v)}))
}

// VFromType starts a pipeline at every vector of the given label.
func (t *Traversal) VFromType(label string) *Traversal {
	vecs, err := t.txn.AllVectors(label)
	if err != nil {
		return t.chain(seqErr(err))
	}
	vs := make([]TraversalValue, len(vecs))
	for i, v := range vecs {
		vs[i] = VectorValue(v)
	}
	return t.chain(FromSlice(vs))
}

// From seeds the pipeline with a single already-materialized value,
// letting a compiled handler continue a sub-traversal from one element
// of a previously collected result (e.g. the loop variable inside a
// generated FOR-loop body). It's the exported counterpart of the
// FromSlice helper every typed source operator above already uses.
func (t *Traversal) From(v TraversalValue) *Traversal {
	return t.chain(FromSlice([]TraversalValue{v}))
}

// seqErr yields a single failing Item, letting a source's construction
// error flow through the same Err-threading contract as every later
// operator instead of panicking or returning a bare error from a builder
// method.
func seqErr(err error) Seq {
	return func(yield func(Item) bool) {
		yield(Fail(err))
	}
}
