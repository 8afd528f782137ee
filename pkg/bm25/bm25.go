package bm25

import (
	"math"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
)

// k1 and b are Okapi BM25's term-frequency saturation and length
// normalization parameters, fixed per spec.md §4.D.
const (
	k1 = 1.2
	b  = 0.75
)

// termKey namespaces postings by label, since spec.md §3 scopes the BM25
// index per label (`postings[term]` is really `postings[label, term]`).
func termKey(label, term string) string { return label + "\x00" + term }

// InsertDoc tokenizes text, appends (docID, tf) to every term's postings
// list, records the document's token length, and rolls the corpus-wide
// stats (N_docs, sum_len) forward.
func InsertDoc(w *storage.WriteTxn, label string, docID types.ID, text string) error {
	tokens := Tokenize(text)
	tf := make(map[string]uint32, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	for term, freq := range tf {
		if err := w.AppendPosting(termKey(label, term), docID, freq); err != nil {
			return err
		}
	}
	if err := w.SetDocLength(docID, uint32(len(tokens))); err != nil {
		return err
	}
	stats, err := w.GetStats()
	if err != nil {
		return err
	}
	stats.NDocs++
	stats.SumLen += uint64(len(tokens))
	return w.SetStats(stats)
}

// Search tokenizes query, collects postings for each unique term, and
// scores every candidate document with Okapi BM25, returning the top k by
// score (ties broken by ascending doc id).
func Search(r *storage.ReadTxn, label, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, herrors.New(herrors.InvalidInput, "k must be positive")
	}
	terms := uniqueTerms(Tokenize(query))
	if len(terms) == 0 {
		return nil, nil
	}

	stats, err := r.GetStats()
	if err != nil {
		return nil, err
	}
	if stats.NDocs == 0 {
		return nil, herrors.ErrEmptyIndex
	}
	avgdl := stats.AvgDL()

	scores := make(map[types.ID]float64)
	for _, term := range terms {
		postings, err := r.GetPostings(termKey(label, term))
		if err != nil {
			return nil, err
		}
		if len(postings) == 0 {
			continue
		}
		df := float64(len(postings))
		idf := math.Log((float64(stats.NDocs)-df+0.5)/(df+0.5) + 1)
		for _, p := range postings {
			length, ok, err := r.GetDocLength(p.DocID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			denom := float64(p.TF) + k1*(1-b+b*float64(length)/avgdl)
			scores[p.DocID] += idf * float64(p.TF) * (k1 + 1) / denom
		}
	}

	top := newTopK(k)
	for id, score := range scores {
		top.push(Result{DocID: id.String(), Score: score})
	}
	return top.items(), nil
}
