package reranker

import (
	"math"
	"sort"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

// MMR greedily diversifies candidates by Maximal Marginal Relevance: each
// step after the first picks the candidate maximizing
// λ·relevance(d,q) − (1−λ)·max_{s∈S} sim(d,s), where S is the already
// selected set. The first selection is always the highest original Score.
// relevance is query-similarity if query is non-nil, else the candidate's
// original Score. Pairwise similarities are cached for the call's
// lifetime so an n-candidate selection computes each pair once.
func MMR(lambda float64, metric types.DistanceMetric, query []float64, candidates []Candidate) ([]Candidate, error) {
	if lambda < 0 || lambda > 1 {
		return nil, herrors.Newf(herrors.InvalidInput, "MMR lambda must be in [0,1], got %v", lambda)
	}
	if len(candidates) == 0 {
		return nil, herrors.New(herrors.InvalidInput, "MMR requires at least one candidate")
	}

	remaining := append([]Candidate(nil), candidates...)
	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].Score > remaining[j].Score })

	selected := make([]Candidate, 0, len(remaining))
	selected = append(selected, remaining[0])
	remaining = remaining[1:]

	simCache := make(map[[2]string]float64)
	similarity := func(a, b Candidate) (float64, error) {
		key := [2]string{a.ID, b.ID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if v, ok := simCache[key]; ok {
			return v, nil
		}
		v, err := rawSimilarity(metric, a.Vector, b.Vector)
		if err != nil {
			return 0, err
		}
		simCache[key] = v
		return v, nil
	}

	for len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)
		for i, cand := range remaining {
			relevance := cand.Score
			if query != nil {
				rel, err := rawSimilarity(metric, cand.Vector, query)
				if err != nil {
					return nil, err
				}
				relevance = rel
			}

			maxSim := 0.0
			for _, s := range selected {
				sim, err := similarity(cand, s)
				if err != nil {
					return nil, err
				}
				if sim > maxSim {
					maxSim = sim
				}
			}

			score := lambda*relevance - (1-lambda)*maxSim
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected, nil
}

// rawSimilarity computes true similarity (higher is better), distinct from
// pkg/vector's Distance (smaller is better): cosine similarity, a
// negative-exponential transform of Euclidean distance, or raw dot
// product, matching the three metrics MMR can be asked to diversify by.
func rawSimilarity(metric types.DistanceMetric, a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, herrors.Newf(herrors.InvalidInput, "dimension mismatch: %d vs %d", len(a), len(b))
	}
	switch metric {
	case types.MetricCosine:
		var dot, na, nb float64
		for i := range a {
			dot += a[i] * b[i]
			na += a[i] * a[i]
			nb += b[i] * b[i]
		}
		na, nb = math.Sqrt(na), math.Sqrt(nb)
		if na == 0 || nb == 0 {
			return 0, nil
		}
		return dot / (na * nb), nil
	case types.MetricEuclidean:
		var sumSq float64
		for i := range a {
			d := a[i] - b[i]
			sumSq += d * d
		}
		return math.Exp(-math.Sqrt(sumSq)), nil
	case types.MetricDotProduct:
		var dot float64
		for i := range a {
			dot += a[i] * b[i]
		}
		return dot, nil
	default:
		return 0, herrors.Newf(herrors.InvalidInput, "unknown distance metric %q", metric)
	}
}
