package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

func openTestEngine(t *testing.T, cfg types.Config) *Engine {
	t.Helper()
	e, err := Open(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func newNode(label string, props types.PropertyMap) *types.Node {
	return &types.Node{ID: types.NewID(), Label: label, Properties: props}
}

func TestNodeCRUD(t *testing.T) {
	e := openTestEngine(t, types.Config{})

	props := types.NewPropertyMap()
	props.Set("name", types.StringValue("Alice"))
	props.Set("age", types.I64Value(30))
	n := newNode("User", props)

	require.NoError(t, e.Update(func(w *WriteTxn) error {
		return w.PutNode(n)
	}))

	require.NoError(t, e.View(func(r *ReadTxn) error {
		got, err := r.GetNode(n.ID)
		require.NoError(t, err)
		name, _ := got.Properties.Get("name")
		assert.Equal(t, "Alice", name.Str)
		return nil
	}))

	require.NoError(t, e.Update(func(w *WriteTxn) error {
		return w.DropNode(n.ID)
	}))

	err := e.View(func(r *ReadTxn) error {
		_, err := r.GetNode(n.ID)
		return err
	})
	assert.True(t, herrors.IsCategory(err, herrors.NotFound))
}

func TestEdgeCascadeOnNodeDrop(t *testing.T) {
	e := openTestEngine(t, types.Config{})

	var a, b, c *types.Node
	require.NoError(t, e.Update(func(w *WriteTxn) error {
		a = newNode("Person", types.NewPropertyMap())
		b = newNode("Person", types.NewPropertyMap())
		c = newNode("Person", types.NewPropertyMap())
		for _, n := range []*types.Node{a, b, c} {
			if err := w.PutNode(n); err != nil {
				return err
			}
		}
		if _, err := w.AddEdge(a.ID, b.ID, "knows", types.NewPropertyMap(), false); err != nil {
			return err
		}
		if _, err := w.AddEdge(a.ID, c.ID, "knows", types.NewPropertyMap(), false); err != nil {
			return err
		}
		return nil
	}))

	require.NoError(t, e.Update(func(w *WriteTxn) error {
		return w.DropNode(a.ID)
	}))

	require.NoError(t, e.View(func(r *ReadTxn) error {
		outB, err := r.InEdges(b.ID, "knows")
		require.NoError(t, err)
		assert.Empty(t, outB)
		outC, err := r.InEdges(c.ID, "knows")
		require.NoError(t, err)
		assert.Empty(t, outC)
		return nil
	}))
}

func TestDuplicateUniqueEdgeRejected(t *testing.T) {
	e := openTestEngine(t, types.Config{})

	var a, b *types.Node
	require.NoError(t, e.Update(func(w *WriteTxn) error {
		a = newNode("Person", types.NewPropertyMap())
		b = newNode("Person", types.NewPropertyMap())
		require.NoError(t, w.PutNode(a))
		require.NoError(t, w.PutNode(b))
		_, err := w.AddEdge(a.ID, b.ID, "married_to", types.NewPropertyMap(), true)
		return err
	}))

	err := e.Update(func(w *WriteTxn) error {
		_, err := w.AddEdge(a.ID, b.ID, "married_to", types.NewPropertyMap(), true)
		return err
	})
	require.Error(t, err)
	assert.True(t, herrors.IsCategory(err, herrors.UniquenessViolation))

	// first edge must still exist
	require.NoError(t, e.View(func(r *ReadTxn) error {
		out, err := r.OutEdges(a.ID, "married_to")
		require.NoError(t, err)
		assert.Len(t, out, 1)
		return nil
	}))
}

func TestUniqueSecondaryIndexRejectsDuplicateValue(t *testing.T) {
	cfg := types.Config{
		GraphConfig: types.GraphConfig{SecondaryIndices: []types.SecondaryIndexDescriptor{
			{Label: "User", Property: "email", Kind: types.IndexUnique},
		}},
	}
	e := openTestEngine(t, cfg)

	p1 := types.NewPropertyMap()
	p1.Set("email", types.StringValue("a@example.com"))
	n1 := newNode("User", p1)

	p2 := types.NewPropertyMap()
	p2.Set("email", types.StringValue("a@example.com"))
	n2 := newNode("User", p2)

	require.NoError(t, e.Update(func(w *WriteTxn) error { return w.PutNode(n1) }))

	err := e.Update(func(w *WriteTxn) error { return w.PutNode(n2) })
	require.Error(t, err)
	assert.True(t, herrors.IsCategory(err, herrors.UniquenessViolation))
}

func TestDropUnknownNodeYieldsNotFound(t *testing.T) {
	e := openTestEngine(t, types.Config{})
	err := e.Update(func(w *WriteTxn) error {
		return w.DropNode(types.NewID())
	})
	assert.True(t, herrors.IsCategory(err, herrors.NotFound))
}

func TestReaderSnapshotIsolation(t *testing.T) {
	e := openTestEngine(t, types.Config{})

	n := newNode("User", types.NewPropertyMap())
	require.NoError(t, e.Update(func(w *WriteTxn) error { return w.PutNode(n) }))

	// Open a long-lived read transaction before the next write commits.
	readDone := make(chan error, 1)
	tx, err := e.beginRead()
	require.NoError(t, err)

	n2 := newNode("User", types.NewPropertyMap())
	require.NoError(t, e.Update(func(w *WriteTxn) error { return w.PutNode(n2) }))

	go func() {
		_, err := tx.GetNode(n2.ID)
		readDone <- err
	}()
	err = <-readDone
	assert.True(t, herrors.IsCategory(err, herrors.NotFound), "reader opened before the write must not observe it")
	require.NoError(t, tx.rollback())
}

func TestNodesByCardinality(t *testing.T) {
	e := openTestEngine(t, types.Config{})

	var hub *types.Node
	require.NoError(t, e.Update(func(w *WriteTxn) error {
		hub = newNode("Hub", types.NewPropertyMap())
		require.NoError(t, w.PutNode(hub))
		for i := 0; i < 5; i++ {
			leaf := newNode("Leaf", types.NewPropertyMap())
			require.NoError(t, w.PutNode(leaf))
			if _, err := w.AddEdge(hub.ID, leaf.ID, "connects", types.NewPropertyMap(), false); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, e.View(func(r *ReadTxn) error {
		top, err := r.GetNodesByCardinality(1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, hub.ID, top[0].Node.ID)
		assert.Equal(t, 5, top[0].Degree)
		return nil
	}))
}
