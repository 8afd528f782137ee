package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyMap_AbsentVsNull(t *testing.T) {
	m := NewPropertyMap()
	m.Set("email", Null)

	v, ok := m.Get("email")
	require.True(t, ok, "explicit null field must be present")
	assert.True(t, v.IsNull())

	_, ok = m.Get("phone")
	assert.False(t, ok, "unset field must be absent, not null")
}

func TestPropertyMap_InsertionOrderPreserved(t *testing.T) {
	m := NewPropertyMap()
	m.Set("b", StringValue("2"))
	m.Set("a", StringValue("1"))
	m.Set("b", StringValue("2-updated")) // overwrite shouldn't move position

	assert.Equal(t, []string{"b", "a"}, m.Keys())
}

func TestPropertyMap_DeleteRemovesKeyAndOrder(t *testing.T) {
	m := NewPropertyMap()
	m.Set("a", I64Value(1))
	m.Set("b", I64Value(2))
	m.Delete("a")

	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, m.Keys())
}

func TestPropertyMap_Merge(t *testing.T) {
	base := NewPropertyMap()
	base.Set("name", StringValue("Bob"))

	patch := NewPropertyMap()
	patch.Set("email", StringValue(""))

	merged := base.Merge(patch)
	name, _ := merged.Get("name")
	email, _ := merged.Get("email")
	assert.Equal(t, "Bob", name.Str)
	assert.Equal(t, "", email.Str)

	// base is untouched
	_, ok := base.Get("email")
	assert.False(t, ok)
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, I64Value(5).Equal(I64Value(5)))
	assert.False(t, I64Value(5).Equal(I64Value(6)))
	assert.False(t, I64Value(5).Equal(F64Value(5)))

	a := ArrayValue([]Value{I64Value(1), StringValue("x")})
	b := ArrayValue([]Value{I64Value(1), StringValue("x")})
	assert.True(t, a.Equal(b))
}

func TestNewID_Unique(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)

	parsed, err := ParseID(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}
