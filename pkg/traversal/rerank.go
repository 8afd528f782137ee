package traversal

import (
	"github.com/cuemby/helixdb/pkg/reranker"
	"github.com/cuemby/helixdb/pkg/types"
)

// toCandidates folds the upstream pipeline into reranker.Candidate,
// reading each element's id, its score/distance (vector Distance if
// present, else its "score" property, else 0), and its vector data when
// the element is a Vector.
func toCandidates(items []TraversalValue) []reranker.Candidate {
	out := make([]reranker.Candidate, 0, len(items))
	for _, v := range items {
		id, _ := v.ID()
		score := 0.0
		var vecData []float64
		if v.Kind == KindVector {
			vecData = v.Vector.Data
			if v.Vector.Distance != nil {
				score = -*v.Vector.Distance // smaller distance -> higher score
			}
		} else if s, ok := v.GetProperty("score"); ok {
			if f, ok := s.AsFloat64(); ok {
				score = f
			}
		}
		out = append(out, reranker.Candidate{ID: id.String(), Score: score, Vector: vecData})
	}
	return out
}

// RRF reranks the pipeline by Reciprocal Rank Fusion with parameter k,
// materializing the source list first (RRF needs every item's rank).
func (t *Traversal) RRF(k int) *Traversal {
	return t.chain(func(yield func(Item) bool) {
		items, err := CollectToVec(t.Seq)
		if err != nil {
			yield(Fail(err))
			return
		}
		byID := indexByID(items)
		ranked := reranker.RRF(k, toCandidates(items))
		for _, c := range ranked {
			v, ok := byID[c.ID]
			if !ok {
				continue
			}
			if !yield(OK(withScore(v, c.Score))) {
				return
			}
		}
	})
}

// MMR reranks the pipeline by Maximal Marginal Relevance, diversifying
// against already-selected items using metric. query is optional: when
// nil, relevance falls back to each item's original score.
func (t *Traversal) MMR(lambda float64, metric types.DistanceMetric, query []float64) *Traversal {
	return t.chain(func(yield func(Item) bool) {
		items, err := CollectToVec(t.Seq)
		if err != nil {
			yield(Fail(err))
			return
		}
		byID := indexByID(items)
		selected, err := reranker.MMR(lambda, metric, query, toCandidates(items))
		if err != nil {
			yield(Fail(err))
			return
		}
		for _, c := range selected {
			v, ok := byID[c.ID]
			if !ok {
				continue
			}
			if !yield(OK(withScore(v, c.Score))) {
				return
			}
		}
	})
}

func indexByID(items []TraversalValue) map[string]TraversalValue {
	out := make(map[string]TraversalValue, len(items))
	for _, v := range items {
		if id, ok := v.ID(); ok {
			out[id.String()] = v
		}
	}
	return out
}

// withScore attaches score back onto a Vector's Distance field (inverted,
// since Distance is smaller-is-better) so downstream consumers still see
// a populated distance/score after reranking; non-vector kinds pass
// through unchanged, since RRF/MMR operate over opaque score, not the
// vector-specific distance contract, for those.
func withScore(v TraversalValue, score float64) TraversalValue {
	if v.Kind != KindVector {
		return v
	}
	vv := *v.Vector
	d := -score
	vv.Distance = &d
	return VectorValue(&vv)
}
