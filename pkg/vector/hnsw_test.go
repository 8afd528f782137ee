package vector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
)

func testConfig() types.VectorConfig {
	return types.VectorConfig{
		M:             16,
		EfConstruction: 128,
		EfSearch:      768,
		Dimensions:    3,
		Metric:        types.MetricCosine,
	}
}

func openTestEngine(t *testing.T, cfg types.VectorConfig) *storage.Engine {
	t.Helper()
	e, err := storage.Open(t.TempDir(), types.Config{VectorConfig: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func insertVector(t *testing.T, e *storage.Engine, idx *Index, label string, data []float64) types.ID {
	t.Helper()
	v := &types.HVector{ID: types.NewID(), Label: label, Data: data, Properties: types.NewPropertyMap()}
	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		return idx.Insert(w, v)
	}))
	return v.ID
}

func TestHNSW_OracleScenario(t *testing.T) {
	cfg := testConfig()
	e := openTestEngine(t, cfg)
	idx := NewWithSource(cfg, rand.NewSource(42))

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		data := []float64{rnd.Float64()*2 - 1, rnd.Float64()*2 - 1, rnd.Float64()*2 - 1}
		insertVector(t, e, idx, "Doc", data)
	}

	v1 := insertVector(t, e, idx, "Doc", []float64{1, 1, 1})
	v2 := insertVector(t, e, idx, "Doc", []float64{0, 0, 0})
	v3 := insertVector(t, e, idx, "Doc", []float64{0.3, 0.3, 0.3})

	var results []types.HVector
	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		var err error
		results, err = idx.Search(r, []float64{1, 1, 1}, 3, nil)
		return err
	}))

	require.Len(t, results, 3)
	assert.Equal(t, v1, results[0].ID)

	ids := make(map[types.ID]bool, len(results))
	for _, r := range results {
		ids[r.ID] = true
	}
	assert.True(t, ids[v3], "v3 (same direction, shorter) must be in the top-3 under cosine distance")
	assert.False(t, ids[v2], "v2 (the zero vector) must not be in the top-3: cosine distance to it is 1.0 by definition, farther than the nearest random vectors")
}

func TestHNSW_EmptyIndexReturnsErrEmptyIndex(t *testing.T) {
	cfg := testConfig()
	e := openTestEngine(t, cfg)
	idx := New(cfg)

	err := e.View(func(r *storage.ReadTxn) error {
		_, err := idx.Search(r, []float64{0, 0, 0}, 3, nil)
		return err
	})
	assert.ErrorIs(t, err, herrors.ErrEmptyIndex)

	err = e.View(func(r *storage.ReadTxn) error {
		_, err := idx.BruteForceSearch(r, []float64{0, 0, 0}, 3, "")
		return err
	})
	assert.ErrorIs(t, err, herrors.ErrEmptyIndex)
}

func TestHNSW_DimensionMismatchRejected(t *testing.T) {
	cfg := testConfig()
	e := openTestEngine(t, cfg)
	idx := New(cfg)
	insertVector(t, e, idx, "Doc", []float64{1, 2, 3})

	err := e.View(func(r *storage.ReadTxn) error {
		_, err := idx.Search(r, []float64{1, 2}, 1, nil)
		return err
	})
	require.Error(t, err)
	assert.True(t, herrors.IsCategory(err, herrors.InvalidInput))
}

// TestHNSW_SearchMatchesBruteForceWhenEfCoversAllPoints asserts that with a
// small enough corpus (ef_search >= N), the graph search and the linear
// scan agree on the nearest neighbor.
func TestHNSW_SearchMatchesBruteForceWhenEfCoversAllPoints(t *testing.T) {
	cfg := testConfig()
	cfg.EfSearch = 1000
	e := openTestEngine(t, cfg)
	idx := NewWithSource(cfg, rand.NewSource(3))

	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		data := []float64{rnd.Float64(), rnd.Float64(), rnd.Float64()}
		insertVector(t, e, idx, "Doc", data)
	}

	query := []float64{0.5, 0.5, 0.5}
	var graphResult, bruteResult []types.HVector
	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		var err error
		graphResult, err = idx.Search(r, query, 1, nil)
		if err != nil {
			return err
		}
		bruteResult, err = idx.BruteForceSearch(r, query, 1, "")
		return err
	}))

	require.Len(t, graphResult, 1)
	require.Len(t, bruteResult, 1)
	assert.Equal(t, bruteResult[0].ID, graphResult[0].ID)
}

// TestHNSW_NeighborsAreBidirectional asserts the mirroring invariant: if b
// is a neighbor of a at a level, a must be a neighbor of b at that level.
// M is kept large relative to the corpus size so no shrink ever evicts an
// established link, isolating the mirroring behavior from the pruning rule.
func TestHNSW_NeighborsAreBidirectional(t *testing.T) {
	cfg := testConfig()
	cfg.M = 50
	e := openTestEngine(t, cfg)
	idx := NewWithSource(cfg, rand.NewSource(99))

	var ids []types.ID
	rnd := rand.New(rand.NewSource(13))
	for i := 0; i < 8; i++ {
		data := []float64{rnd.Float64(), rnd.Float64(), rnd.Float64()}
		ids = append(ids, insertVector(t, e, idx, "Doc", data))
	}

	require.NoError(t, e.View(func(r *storage.ReadTxn) error {
		for _, a := range ids {
			for level := 0; level <= 1; level++ {
				neighbors, err := r.GetNeighbors(a, level)
				require.NoError(t, err)
				for _, n := range neighbors {
					back, err := r.GetNeighbors(n.ID, level)
					require.NoError(t, err)
					found := false
					for _, bn := range back {
						if bn.ID == a {
							found = true
							break
						}
					}
					assert.True(t, found, "expected %s to mirror back to %s at level %d", n.ID, a, level)
				}
			}
		}
		return nil
	}))
}
