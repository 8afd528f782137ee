package bm25

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("The Quick-Brown Fox, jumps over 2 lazy dogs!")
	assert.Equal(t, []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dogs"}, got)
}

func TestTokenize_DropsShortTokens(t *testing.T) {
	got := Tokenize("a an I am")
	assert.Equal(t, []string{"an", "am"}, got)
}

func openTestEngine(t *testing.T) *storage.Engine {
	t.Helper()
	e, err := storage.Open(t.TempDir(), types.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestSearch_RanksByRelevance(t *testing.T) {
	e := openTestEngine(t)

	docs := map[string]string{
		"a": "the quick brown fox jumps over the lazy dog",
		"b": "foxes are quick and clever animals",
		"c": "a completely unrelated document about databases",
	}
	ids := make(map[string]types.ID)
	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		for key, text := range docs {
			id := types.NewID()
			ids[key] = id
			if err := InsertDoc(w, "Doc", id, text); err != nil {
				return err
			}
		}
		return nil
	}))

	var results []Result
	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		var err error
		results, err = Search(r, "Doc", "quick fox", 3)
		return err
	}))

	require.NotEmpty(t, results)
	assert.Equal(t, ids["a"].String(), results[0].DocID)
	for _, r := range results {
		assert.NotEqual(t, ids["c"].String(), r.DocID, "unrelated doc must not match either query term")
	}
}

func TestSearch_TopKTruncates(t *testing.T) {
	e := openTestEngine(t)
	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		for i := 0; i < 10; i++ {
			if err := InsertDoc(w, "Doc", types.NewID(), "graph database traversal query"); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		results, err := Search(r, "Doc", "graph query", 3)
		require.NoError(t, err)
		assert.Len(t, results, 3)
		return nil
	}))
}

func TestSearch_EmptyIndexReturnsErrEmptyIndex(t *testing.T) {
	e := openTestEngine(t)
	err := e.View(func(r *storage.ReadTxn) error {
		_, err := Search(r, "Doc", "anything", 5)
		return err
	})
	assert.ErrorIs(t, err, herrors.ErrEmptyIndex)
}

func TestSearch_NoMatchingTermsReturnsEmpty(t *testing.T) {
	e := openTestEngine(t)
	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		return InsertDoc(w, "Doc", types.NewID(), "hello world")
	}))

	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		results, err := Search(r, "Doc", "nonexistent", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
		return nil
	}))
}
