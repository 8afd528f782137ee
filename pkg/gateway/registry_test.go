package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	h := &Handler{Name: "get_user", IsWrite: false}
	r.Register(h)

	got, ok := r.Lookup("get_user")
	assert.True(t, ok)
	assert.Same(t, h, got)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"get_user"}, r.Names())
}
