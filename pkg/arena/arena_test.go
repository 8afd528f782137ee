package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocAndGet(t *testing.T) {
	a := New[string]()
	h := a.Alloc("hello")
	v, ok := a.Get(h)
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestArena_FreeReusesSlot(t *testing.T) {
	a := New[int]()
	h1 := a.Alloc(1)
	a.Free(h1)
	h2 := a.Alloc(2)

	v1, ok := a.Get(h1)
	require.True(t, ok, "Free does not invalidate h1; only Reset does")
	assert.Equal(t, 2, v1, "h1 shares the reused slot, so it resolves to the value stored there now")

	v2, ok := a.Get(h2)
	require.True(t, ok)
	assert.Equal(t, 2, v2)
	assert.Equal(t, 1, a.Len())
}

func TestArena_ResetInvalidatesHandles(t *testing.T) {
	a := New[int]()
	h := a.Alloc(42)
	_, ok := a.Get(h)
	require.True(t, ok)

	a.Reset()
	assert.Equal(t, 0, a.Len())

	_, ok = a.Get(h)
	assert.False(t, ok, "handle minted before Reset must become stale")

	h2 := a.Alloc(7)
	v, ok := a.Get(h2)
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestArena_FreeOnStaleHandleIsNoop(t *testing.T) {
	a := New[int]()
	h := a.Alloc(1)
	a.Reset()
	a.Free(h) // must not panic or corrupt the new generation
	assert.Equal(t, 0, a.Len())
}
