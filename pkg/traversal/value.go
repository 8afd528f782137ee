// Package traversal implements HelixDB's traversal runtime: a lazy,
// single-pass iterator-adapter pipeline over TraversalValue, the tagged
// union threaded through every graph-stepping, filter, search, and
// mutation operator in spec.md §4.E. Pipelines are built as chained
// iter.Seq[Item] stages so a consumer can drain one element at a time
// without materializing the whole result set, matching the arena-backed,
// per-request allocation model of pkg/arena.
package traversal

import (
	"iter"

	"github.com/cuemby/helixdb/pkg/types"
)

// Kind tags the variant held by a TraversalValue.
type Kind uint8

const (
	KindNode Kind = iota
	KindEdge
	KindVector
	KindValue
	KindCount
	KindPath
	KindEmpty
)

// Path is an ordered walk of nodes connected by edges, produced by
// shortest_path.
type Path struct {
	Nodes []types.Node
	Edges []types.Edge
}

// TraversalValue is the tagged union every traversal operator produces and
// consumes: Node | Edge | Vector | Value | Count | Path | Empty. Exactly
// one field is meaningful, selected by Kind.
type TraversalValue struct {
	Kind   Kind
	Node   *types.Node
	Edge   *types.Edge
	Vector *types.HVector
	Value  types.Value
	Count  int
	Path   Path
}

func NodeValue(n *types.Node) TraversalValue     { return TraversalValue{Kind: KindNode, Node: n} }
func EdgeValue(e *types.Edge) TraversalValue     { return TraversalValue{Kind: KindEdge, Edge: e} }
func VectorValue(v *types.HVector) TraversalValue {
	return TraversalValue{Kind: KindVector, Vector: v}
}
func ScalarValue(v types.Value) TraversalValue { return TraversalValue{Kind: KindValue, Value: v} }
func CountValue(n int) TraversalValue          { return TraversalValue{Kind: KindCount, Count: n} }
func PathValue(p Path) TraversalValue          { return TraversalValue{Kind: KindPath, Path: p} }

// Empty is the singleton empty-variant value, distinct from an absent
// element: some operators (Exist) need to represent "no" without ending
// the sequence.
var Empty = TraversalValue{Kind: KindEmpty}

// ID returns the identifier of a Node, Edge, or Vector value, and whether
// the value carries one at all (Value/Count/Path/Empty do not).
func (v TraversalValue) ID() (types.ID, bool) {
	switch v.Kind {
	case KindNode:
		return v.Node.ID, true
	case KindEdge:
		return v.Edge.ID, true
	case KindVector:
		return v.Vector.ID, true
	default:
		return types.ID{}, false
	}
}

// Label returns the label of a Node, Edge, or Vector value.
func (v TraversalValue) Label() (string, bool) {
	switch v.Kind {
	case KindNode:
		return v.Node.Label, true
	case KindEdge:
		return v.Edge.Label, true
	case KindVector:
		return v.Vector.Label, true
	default:
		return "", false
	}
}

// Properties returns the property map of a Node, Edge, or Vector value.
func (v TraversalValue) Properties() (types.PropertyMap, bool) {
	switch v.Kind {
	case KindNode:
		return v.Node.Properties, true
	case KindEdge:
		return v.Edge.Properties, true
	case KindVector:
		return v.Vector.Properties, true
	default:
		return types.PropertyMap{}, false
	}
}

// GetProperty resolves a named field off a Node/Edge/Vector value, folding
// in the synthetic fields that are not stored in the property map (id,
// label, and the edge/vector-specific ones) so operators don't
// special-case them.
func (v TraversalValue) GetProperty(name string) (types.Value, bool) {
	switch name {
	case "id":
		if id, ok := v.ID(); ok {
			return types.UUIDValue(id), true
		}
		return types.Value{}, false
	case "label":
		if lbl, ok := v.Label(); ok {
			return types.StringValue(lbl), true
		}
		return types.Value{}, false
	}
	switch v.Kind {
	case KindEdge:
		switch name {
		case "from_node":
			return types.UUIDValue(v.Edge.From), true
		case "to_node":
			return types.UUIDValue(v.Edge.To), true
		}
	case KindVector:
		switch name {
		case "data":
			vs := make([]types.Value, len(v.Vector.Data))
			for i, f := range v.Vector.Data {
				vs[i] = types.F64Value(f)
			}
			return types.ArrayValue(vs), true
		case "score":
			if v.Vector.Distance != nil {
				return types.F64Value(*v.Vector.Distance), true
			}
			return types.Value{}, false
		}
	}
	props, ok := v.Properties()
	if !ok {
		return types.Value{}, false
	}
	return props.Get(name)
}

// Item is one element flowing through a pipeline paired with an error.
// Operators never drop an error silently: it is threaded as the Item's Err
// field so the consumer decides whether to stop (collect-or-fail) or skip
// and continue (filter-then-continue), per spec.md §7's propagation policy.
type Item struct {
	Value TraversalValue
	Err   error
}

// OK constructs a successful Item.
func OK(v TraversalValue) Item { return Item{Value: v} }

// Fail constructs a failed Item; pipelines downstream of this item still
// receive it (they may choose to stop or skip), matching the "first
// failing element yields an Err" contract rather than silently truncating
// the sequence.
func Fail(err error) Item { return Item{Err: err} }

// Seq is the iterator type every traversal stage produces and consumes:
// a push-style sequence of Items, consumed with range-over-func. Returning
// false from the yield callback stops the upstream producer early,
// giving collect-or-fail consumers early exit without extra plumbing.
type Seq = iter.Seq[Item]

// ToJSON renders v as a plain Go value ready for encoding/json, the same
// node/edge/vector shape pkg/gateway's built-in routes render by hand
// (id/label plus properties, data for vectors), so generated handler
// code (pkg/helixql/codegen) and the built-ins agree on wire shape.
func (v TraversalValue) ToJSON() any {
	switch v.Kind {
	case KindNode:
		out := v.Node.Properties.ToJSON()
		out["id"] = v.Node.ID.String()
		out["label"] = v.Node.Label
		return out
	case KindEdge:
		out := v.Edge.Properties.ToJSON()
		out["id"] = v.Edge.ID.String()
		out["label"] = v.Edge.Label
		out["from_node"] = v.Edge.From.String()
		out["to_node"] = v.Edge.To.String()
		return out
	case KindVector:
		out := v.Vector.Properties.ToJSON()
		out["id"] = v.Vector.ID.String()
		out["label"] = v.Vector.Label
		out["data"] = v.Vector.Data
		if v.Vector.Distance != nil {
			out["score"] = *v.Vector.Distance
		}
		return out
	case KindValue:
		return v.Value.ToJSON()
	case KindCount:
		return v.Count
	case KindPath:
		nodes := make([]any, len(v.Path.Nodes))
		for i, n := range v.Path.Nodes {
			nodes[i] = NodeValue(&n).ToJSON()
		}
		edges := make([]any, len(v.Path.Edges))
		for i, e := range v.Path.Edges {
			edges[i] = EdgeValue(&e).ToJSON()
		}
		return map[string]any{"nodes": nodes, "edges": edges}
	default:
		return nil
	}
}

// ValuesToJSON renders a slice of TraversalValue as a []any, the shape a
// RETURN binding typed as a plural traversal result serializes to.
func ValuesToJSON(vs []TraversalValue) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v.ToJSON()
	}
	return out
}

// FromSlice lifts a pre-materialized slice of values into a Seq, used by
// source operators that must resolve their full result set against the
// storage engine before the first element can be yielded (e.g. a label
// scan has no cheaper incremental form against a bbolt cursor here).
func FromSlice(vs []TraversalValue) Seq {
	return func(yield func(Item) bool) {
		for _, v := range vs {
			if !yield(OK(v)) {
				return
			}
		}
	}
}
