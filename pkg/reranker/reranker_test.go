package reranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

func TestRRF_SingleListOrdersByRank(t *testing.T) {
	list := []Candidate{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	out := RRF(DefaultRRFK, list)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
	assert.Greater(t, out[0].Score, out[1].Score)
	assert.Greater(t, out[1].Score, out[2].Score)
}

func TestRRF_MergesMultipleListsByID(t *testing.T) {
	listA := []Candidate{{ID: "x"}, {ID: "y"}}
	listB := []Candidate{{ID: "y"}, {ID: "x"}}
	out := RRF(60, listA, listB)
	require.Len(t, out, 2)
	// y ranks 1 in listA and 0 in listB; x ranks 0 in listA and 1 in listB.
	// Their fused scores tie, so the id tie-break ("x" < "y") decides order.
	assert.Equal(t, "x", out[0].ID)
	assert.InDelta(t, out[0].Score, out[1].Score, 1e-12)
}

func TestMMR_RejectsOutOfRangeLambda(t *testing.T) {
	_, err := MMR(1.5, types.MetricCosine, nil, []Candidate{{ID: "a", Vector: []float64{1, 0}}})
	require.Error(t, err)
	assert.True(t, herrors.IsCategory(err, herrors.InvalidInput))

	_, err = MMR(-0.1, types.MetricCosine, nil, []Candidate{{ID: "a", Vector: []float64{1, 0}}})
	assert.True(t, herrors.IsCategory(err, herrors.InvalidInput))
}

func TestMMR_RejectsEmptyInput(t *testing.T) {
	_, err := MMR(0.7, types.MetricCosine, nil, nil)
	require.Error(t, err)
	assert.True(t, herrors.IsCategory(err, herrors.InvalidInput))
}

// TestMMR_PrefersDiversityAtEqualWeight mirrors the teacher oracle: two
// nearly-identical vectors plus one distinct vector, equal weight on
// relevance and diversity. The first pick is highest original score; the
// second pick should be the diverse vector, not the near-duplicate.
func TestMMR_PrefersDiversityAtEqualWeight(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Score: 0.9, Vector: []float64{1.0, 0.0, 0.0}},
		{ID: "2", Score: 0.85, Vector: []float64{0.99, 0.01, 0.0}},
		{ID: "3", Score: 0.7, Vector: []float64{0.0, 1.0, 0.0}},
	}
	out, err := MMR(0.5, types.MetricCosine, nil, candidates)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)
}

// TestMMR_HighLambdaFavorsRelevance mirrors the teacher oracle: with
// lambda near 1, selection order should track original score order even
// though candidate 2 is very similar to candidate 1.
func TestMMR_HighLambdaFavorsRelevance(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Score: 1.0, Vector: []float64{1.0, 0.0}},
		{ID: "2", Score: 0.9, Vector: []float64{0.99, 0.01}},
		{ID: "3", Score: 0.5, Vector: []float64{0.0, 1.0}},
	}
	out, err := MMR(0.99, types.MetricCosine, nil, candidates)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "2", out[1].ID)
}

func TestMMR_WithQueryVectorUsesQuerySimilarityAsRelevance(t *testing.T) {
	query := []float64{1.0, 0.0, 0.0}
	candidates := []Candidate{
		{ID: "1", Score: 0.9, Vector: []float64{0.9, 0.1, 0.0}},
		{ID: "2", Score: 0.5, Vector: []float64{0.1, 0.9, 0.0}},
	}
	out, err := MMR(0.7, types.MetricCosine, query, candidates)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
}
