package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
	"github.com/cuemby/helixdb/pkg/vector"
)

func openTestEngine(t *testing.T, cfg types.Config) *storage.Engine {
	t.Helper()
	e, err := storage.Open(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func props(pairs ...any) types.PropertyMap {
	m := types.NewPropertyMap()
	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case string:
			m.Set(key, types.StringValue(v))
		case int:
			m.Set(key, types.I64Value(int64(v)))
		case float64:
			m.Set(key, types.F64Value(v))
		}
	}
	return m
}

// TestNodeCRUD covers spec.md §8 scenario 1: add_n, property read, drop,
// then NotFound on the dropped id.
func TestNodeCRUD(t *testing.T) {
	e := openTestEngine(t, types.Config{})
	idx := vector.New(types.DefaultVectorConfig(3, types.MetricCosine))

	var created types.ID
	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		tr := NewWrite(e, w, idx, NewArena())
		tr.AddN("User", props("name", "Alice", "age", 30))
		vs, err := CollectToVec(tr.Seq)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		created = vs[0].Node.ID
		return nil
	}))

	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		tr := New(e, r, idx, NewArena())
		tr.NFromID(created)
		vs, err := CollectToVec(tr.Seq)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		name, ok := vs[0].GetProperty("name")
		require.True(t, ok)
		assert.Equal(t, "Alice", name.Str)
		return nil
	}))

	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		tr := NewWrite(e, w, idx, NewArena())
		tr.NFromID(created).Drop()
		_, err := CollectToVec(tr.Seq)
		return err
	}))

	err := e.View(func(r *storage.ReadTxn) error {
		tr := New(e, r, idx, NewArena())
		tr.NFromID(created)
		_, err := CollectToVec(tr.Seq)
		return err
	})
	assert.Error(t, err)
}

// TestEdgeCascadeOnDrop covers spec.md §8 scenario 2: dropping a node
// removes every edge incident to it.
func TestEdgeCascadeOnDrop(t *testing.T) {
	e := openTestEngine(t, types.Config{})
	idx := vector.New(types.DefaultVectorConfig(3, types.MetricCosine))

	var a, b, c types.ID
	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		tr := NewWrite(e, w, idx, NewArena())
		tr.AddN("Person", types.NewPropertyMap())
		vs, _ := CollectToVec(tr.Seq)
		a = vs[0].Node.ID

		tr = NewWrite(e, w, idx, NewArena())
		tr.AddN("Person", types.NewPropertyMap())
		vs, _ = CollectToVec(tr.Seq)
		b = vs[0].Node.ID

		tr = NewWrite(e, w, idx, NewArena())
		tr.AddN("Person", types.NewPropertyMap())
		vs, _ = CollectToVec(tr.Seq)
		c = vs[0].Node.ID

		tr = NewWrite(e, w, idx, NewArena())
		tr.AddEdge("knows", types.NewPropertyMap(), false, []types.ID{a}, []types.ID{b})
		_, err := CollectToVec(tr.Seq)
		require.NoError(t, err)

		tr = NewWrite(e, w, idx, NewArena())
		tr.AddEdge("knows", types.NewPropertyMap(), false, []types.ID{a}, []types.ID{c})
		_, err = CollectToVec(tr.Seq)
		require.NoError(t, err)

		tr = NewWrite(e, w, idx, NewArena())
		tr.NFromID(a).Drop()
		_, err = CollectToVec(tr.Seq)
		return err
	}))

	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		tr := New(e, r, idx, NewArena())
		tr.EFromType("knows")
		vs, err := CollectToVec(tr.Seq)
		require.NoError(t, err)
		assert.Empty(t, vs)
		return nil
	}))
}

// TestDuplicateUniqueEdge covers the boundary behavior: a second unique
// edge between the same ordered pair fails without removing the first.
func TestDuplicateUniqueEdge(t *testing.T) {
	e := openTestEngine(t, types.Config{})
	idx := vector.New(types.DefaultVectorConfig(3, types.MetricCosine))

	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		tr := NewWrite(e, w, idx, NewArena())
		tr.AddN("Person", types.NewPropertyMap())
		vs, _ := CollectToVec(tr.Seq)
		a := vs[0].Node.ID

		tr = NewWrite(e, w, idx, NewArena())
		tr.AddN("Person", types.NewPropertyMap())
		vs, _ = CollectToVec(tr.Seq)
		b := vs[0].Node.ID

		tr = NewWrite(e, w, idx, NewArena())
		tr.AddEdge("owns", types.NewPropertyMap(), true, []types.ID{a}, []types.ID{b})
		_, err := CollectToVec(tr.Seq)
		require.NoError(t, err)

		tr = NewWrite(e, w, idx, NewArena())
		tr.AddEdge("owns", types.NewPropertyMap(), true, []types.ID{a}, []types.ID{b})
		_, err = CollectToVec(tr.Seq)
		assert.Error(t, err)
		return nil
	}))
}

// TestShortestPathBFSVsDijkstra covers spec.md §8 scenario 6: BFS takes
// the direct (higher-weight) edge while Dijkstra finds the cheaper detour.
func TestShortestPathBFSVsDijkstra(t *testing.T) {
	e := openTestEngine(t, types.Config{})
	idx := vector.New(types.DefaultVectorConfig(3, types.MetricCosine))

	var a, m1, m2, epEnd types.ID
	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		mk := func() types.ID {
			tr := NewWrite(e, w, idx, NewArena())
			tr.AddN("N", types.NewPropertyMap())
			vs, _ := CollectToVec(tr.Seq)
			return vs[0].Node.ID
		}
		a, m1, m2, epEnd = mk(), mk(), mk(), mk()

		link := func(from, to types.ID, weight float64) {
			tr := NewWrite(e, w, idx, NewArena())
			tr.AddEdge("edge", props("weight", weight), false, []types.ID{from}, []types.ID{to})
			_, err := CollectToVec(tr.Seq)
			require.NoError(t, err)
		}
		link(a, epEnd, 100)
		link(a, m1, 3)
		link(m1, m2, 3)
		link(m2, epEnd, 4)
		return nil
	}))

	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		tr := New(e, r, idx, NewArena())
		tr.ShortestPath(AlgoBFS, "", a, epEnd, nil)
		vs, err := CollectToVec(tr.Seq)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Len(t, vs[0].Path.Nodes, 2) // direct hop

		tr = New(e, r, idx, NewArena())
		tr.ShortestPath(AlgoDijkstra, "", a, epEnd, nil)
		vs, err = CollectToVec(tr.Seq)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Len(t, vs[0].Path.Nodes, 4) // detour via m1, m2
		return nil
	}))
}

func TestRangeAndDedup(t *testing.T) {
	e := openTestEngine(t, types.Config{})
	idx := vector.New(types.DefaultVectorConfig(3, types.MetricCosine))

	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		for i := 0; i < 5; i++ {
			tr := NewWrite(e, w, idx, NewArena())
			tr.AddN("Item", types.NewPropertyMap())
			_, err := CollectToVec(tr.Seq)
			require.NoError(t, err)
		}
		return nil
	}))

	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		tr := New(e, r, idx, NewArena())
		tr.NFromType("Item").Range(1, 2)
		vs, err := CollectToVec(tr.Seq)
		require.NoError(t, err)
		assert.Len(t, vs, 2)

		tr = New(e, r, idx, NewArena())
		tr.NFromType("Item").Dedup()
		vs, err = CollectToVec(tr.Seq)
		require.NoError(t, err)
		assert.Len(t, vs, 5)
		return nil
	}))
}

func TestGroupByAndAggregateBy(t *testing.T) {
	e := openTestEngine(t, types.Config{})
	idx := vector.New(types.DefaultVectorConfig(3, types.MetricCosine))

	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		for _, city := range []string{"NYC", "NYC", "LA"} {
			tr := NewWrite(e, w, idx, NewArena())
			tr.AddN("Person", props("city", city))
			_, err := CollectToVec(tr.Seq)
			require.NoError(t, err)
		}
		return nil
	}))

	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		tr := New(e, r, idx, NewArena())
		tr.NFromType("Person").AggregateBy([]string{"city"}, true)
		vs, err := CollectToVec(tr.Seq)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		nyc, ok := vs[0].Value.Obj.Get("NYC")
		require.True(t, ok)
		assert.Equal(t, int64(2), nyc.Int)
		return nil
	}))
}
