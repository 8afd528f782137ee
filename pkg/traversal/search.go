package traversal

import (
	"github.com/cuemby/helixdb/pkg/bm25"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
)

// readTxn returns a *storage.ReadTxn for HNSW/BM25 operators, which only
// read: a write traversal's embedded ReadTxn works identically.
func (t *Traversal) readTxn() *storage.ReadTxn {
	if t.wtxn != nil {
		return &t.wtxn.ReadTxn
	}
	return t.txn.(*storage.ReadTxn)
}

// SearchV starts a pipeline at the k nearest vectors to query by HNSW
// search, optionally applying pred as a pre-filter (see vector.Index.Search
// for the "traversed but not added to the result" semantics).
func (t *Traversal) SearchV(query []float64, k int, pred func(*types.HVector) bool) *Traversal {
	results, err := t.vec.Search(t.readTxn(), query, k, pred)
	if err != nil {
		return t.chain(seqErr(err))
	}
	vs := make([]TraversalValue, len(results))
	for i := range results {
		vs[i] = VectorValue(&results[i])
	}
	return t.chain(FromSlice(vs))
}

// BruteForceSearchV starts a pipeline at the k nearest vectors to query via
// a linear scan, optionally restricted to one label. Used when ef_search
// is set at or above the store's vector count, for deterministic test
// oracles, or for search over an externally constrained candidate set.
func (t *Traversal) BruteForceSearchV(query []float64, k int, label string) *Traversal {
	results, err := t.vec.BruteForceSearch(t.readTxn(), query, k, label)
	if err != nil {
		return t.chain(seqErr(err))
	}
	vs := make([]TraversalValue, len(results))
	for i := range results {
		vs[i] = VectorValue(&results[i])
	}
	return t.chain(FromSlice(vs))
}

// SearchBM25 starts a pipeline at the top-k documents matching query by
// Okapi BM25 score within label. Results are yielded as Node values with a
// synthetic "score" property carrying the BM25 score, so downstream
// rerankers can read it via GetProperty("score").
func (t *Traversal) SearchBM25(label, query string, k int) *Traversal {
	results, err := bm25.Search(t.readTxn(), label, query, k)
	if err != nil {
		return t.chain(seqErr(err))
	}
	return t.chain(func(yield func(Item) bool) {
		for _, r := range results {
			id, err := types.ParseID(r.DocID)
			if err != nil {
				if !yield(Fail(err)) {
					return
				}
				continue
			}
			n, err := t.txn.GetNode(id)
			if err != nil {
				if !yield(Fail(err)) {
					return
				}
				continue
			}
			scored := *n
			scored.Properties = scored.Properties.Clone()
			scored.Properties.Set("score", types.F64Value(r.Score))
			if !yield(OK(NodeValue(&scored))) {
				return
			}
		}
	})
}
