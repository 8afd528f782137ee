package embedclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	spec, err := ParseSpec("openai:text-embedding-3-small")
	require.NoError(t, err)
	assert.Equal(t, "openai", spec.Provider)
	assert.Equal(t, "text-embedding-3-small", spec.Model)
	assert.Equal(t, "", spec.Task)

	_, err = ParseSpec("unknown:model")
	assert.Error(t, err)
}

func TestLocalEmbedderFetchEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req localRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Input)
		json.NewEncoder(w).Encode(localResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	e, err := NewLocalEmbedder(LocalConfig{URL: srv.URL})
	require.NoError(t, err)

	vec, err := e.FetchEmbedding(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestNewLocalEmbedderRequiresURL(t *testing.T) {
	_, err := NewLocalEmbedder(LocalConfig{})
	assert.Error(t, err)
}
