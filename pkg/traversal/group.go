package traversal

import (
	"sort"
	"strconv"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

// KeyFn extracts a sort key Value from an element; OrderByAsc and
// OrderByDesc take one as their closure argument, while GroupBy takes
// property names instead.
type KeyFn func(TraversalValue) types.Value

// orderBy materializes the upstream pipeline (ordering needs every element
// before it can emit the first one), sorts by key ascending or descending,
// and re-emits. The first upstream error aborts materialization and is
// yielded alone.
func (t *Traversal) orderBy(key KeyFn, ascending bool) *Traversal {
	upstream := t.Seq
	return t.chain(func(yield func(Item) bool) {
		items, err := CollectToVec(upstream)
		if err != nil {
			yield(Fail(err))
			return
		}
		sort.SliceStable(items, func(i, j int) bool {
			less := valueLess(key(items[i]), key(items[j]))
			if ascending {
				return less
			}
			return valueLess(key(items[j]), key(items[i]))
		})
		for _, v := range items {
			if !yield(OK(v)) {
				return
			}
		}
	})
}

// OrderByAsc sorts the pipeline ascending by key.
func (t *Traversal) OrderByAsc(key KeyFn) *Traversal { return t.orderBy(key, true) }

// OrderByDesc sorts the pipeline descending by key.
func (t *Traversal) OrderByDesc(key KeyFn) *Traversal { return t.orderBy(key, false) }

// valueLess provides a total order over Values for sorting: numeric kinds
// compare numerically, strings/dates/uuids lexically, everything else
// falls back to its Kind ordinal so the sort is at least stable.
func valueLess(a, b types.Value) bool {
	if af, aok := a.AsFloat64(); aok {
		if bf, bok := b.AsFloat64(); bok {
			return af < bf
		}
	}
	if a.Kind == types.KindString || a.Kind == types.KindDate || a.Kind == types.KindUUID {
		if b.Kind == a.Kind {
			return a.Str < b.Str
		}
	}
	return a.Kind < b.Kind
}

// groupKey concatenates the string form of each named property of v into
// a single key, in declared order, per spec.md §4.E's "keys formed by
// concatenating the Value representations of each listed property".
func groupKey(v TraversalValue, props []string) (string, bool) {
	key := ""
	for i, p := range props {
		val, ok := v.GetProperty(p)
		if !ok {
			return "", false
		}
		if i > 0 {
			key += "\x1f"
		}
		key += valueKeyString(val)
	}
	return key, true
}

func valueKeyString(v types.Value) string {
	switch v.Kind {
	case types.KindString, types.KindDate, types.KindUUID:
		return v.Str
	case types.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		if f, ok := v.AsFloat64(); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return ""
	}
}

// GroupBy buckets elements by the Values of props (in declared order),
// preserving first-seen bucket order and insertion order within each
// bucket, and yields a single Object Value: key string -> array of the
// bucket's elements encoded as Value (Node/Edge/Vector fold to their
// property object plus id/label).
func (t *Traversal) GroupBy(props []string) *Traversal {
	return t.chain(func(yield func(Item) bool) {
		items, err := CollectToVec(t.Seq)
		if err != nil {
			yield(Fail(err))
			return
		}
		order := []string{}
		buckets := map[string][]types.Value{}
		for _, v := range items {
			key, ok := groupKey(v, props)
			if !ok {
				yield(Fail(herrors.Newf(herrors.SchemaViolation, "group_by: element missing one of %v", props)))
				return
			}
			if _, seen := buckets[key]; !seen {
				order = append(order, key)
			}
			buckets[key] = append(buckets[key], valueToValue(v))
		}
		obj := types.NewPropertyMap()
		for _, k := range order {
			obj.Set(k, types.ArrayValue(buckets[k]))
		}
		yield(OK(ScalarValue(types.ObjectValue(obj))))
	})
}

// AggregateBy is GroupBy's counting form: when countOnly, each bucket
// collapses to its element count instead of its element list.
func (t *Traversal) AggregateBy(props []string, countOnly bool) *Traversal {
	if !countOnly {
		return t.GroupBy(props)
	}
	return t.chain(func(yield func(Item) bool) {
		items, err := CollectToVec(t.Seq)
		if err != nil {
			yield(Fail(err))
			return
		}
		order := []string{}
		counts := map[string]int{}
		for _, v := range items {
			key, ok := groupKey(v, props)
			if !ok {
				yield(Fail(herrors.Newf(herrors.SchemaViolation, "aggregate_by: element missing one of %v", props)))
				return
			}
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
		obj := types.NewPropertyMap()
		for _, k := range order {
			obj.Set(k, types.I64Value(int64(counts[k])))
		}
		yield(OK(ScalarValue(types.ObjectValue(obj))))
	})
}

// valueToValue folds a TraversalValue down into a plain types.Value for
// embedding inside a group_by/aggregate_by result object: Node/Edge/Vector
// become an Object carrying id, label, and their properties.
func valueToValue(v TraversalValue) types.Value {
	switch v.Kind {
	case KindValue:
		return v.Value
	case KindCount:
		return types.I64Value(int64(v.Count))
	case KindNode, KindEdge, KindVector:
		obj := types.NewPropertyMap()
		if id, ok := v.ID(); ok {
			obj.Set("id", types.UUIDValue(id))
		}
		if lbl, ok := v.Label(); ok {
			obj.Set("label", types.StringValue(lbl))
		}
		if props, ok := v.Properties(); ok {
			for _, k := range props.Keys() {
				val, _ := props.Get(k)
				obj.Set(k, val)
			}
		}
		return types.ObjectValue(obj)
	default:
		return types.Null
	}
}

