package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/traversal"
	"github.com/cuemby/helixdb/pkg/types"
)

func TestMCPTableOpenNextClose(t *testing.T) {
	table := NewMCPTable()

	n1 := &types.Node{ID: types.NewID(), Label: "A"}
	n2 := &types.Node{ID: types.NewID(), Label: "B"}
	seq := traversal.FromSlice([]traversal.TraversalValue{
		traversal.NodeValue(n1),
		traversal.NodeValue(n2),
	})

	conn := table.Open(seq)
	require.NotEmpty(t, conn.ID)
	assert.Equal(t, 1, table.Len())

	got, ok := table.Get(conn.ID)
	require.True(t, ok)
	assert.Same(t, conn, got)

	item, ok := got.Next()
	require.True(t, ok)
	require.NoError(t, item.Err)
	assert.Equal(t, "A", item.Value.Node.Label)

	item, ok = got.Next()
	require.True(t, ok)
	assert.Equal(t, "B", item.Value.Node.Label)

	_, ok = got.Next()
	assert.False(t, ok)

	table.Close(conn.ID)
	assert.Equal(t, 0, table.Len())
	_, ok = table.Get(conn.ID)
	assert.False(t, ok)

	// Next on a closed connection must not resume the underlying iterator.
	_, ok = conn.Next()
	assert.False(t, ok)
}

func TestMCPTableCloseUnknownIsNoop(t *testing.T) {
	table := NewMCPTable()
	table.Close("does-not-exist")
	assert.Equal(t, 0, table.Len())
}
