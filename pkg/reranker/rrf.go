// Package reranker implements the two rank-fusion strategies traversal
// pipelines can apply to a scored candidate set: Reciprocal Rank Fusion
// and Maximal Marginal Relevance.
package reranker

import "sort"

// Candidate is one item entering a rerank stage: an opaque id, its prior
// score (used by RRF and as MMR's relevance fallback), and the vector
// data MMR needs for its similarity term.
type Candidate struct {
	ID     string
	Score  float64
	Vector []float64
}

// DefaultRRFK is spec.md §4.G's default k for Reciprocal Rank Fusion.
const DefaultRRFK = 60

// RRF fuses one or more ranked lists (rank 0 = best within each list) via
// Reciprocal Rank Fusion: score(d) = 1/(k+rank+1). A single list is scored
// as-is; passing several lists merges by id, summing scores, which is how
// multi-list fusion is achieved over this single-list primitive. Output is
// sorted by descending score, ties broken by ascending id.
func RRF(k int, rankedLists ...[]Candidate) []Candidate {
	scores := make(map[string]float64)
	order := make([]string, 0)
	vecs := make(map[string][]float64)
	for _, list := range rankedLists {
		for rank, c := range list {
			if _, seen := scores[c.ID]; !seen {
				order = append(order, c.ID)
				vecs[c.ID] = c.Vector
			}
			scores[c.ID] += 1.0 / float64(k+rank+1)
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, Candidate{ID: id, Score: scores[id], Vector: vecs[id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}
