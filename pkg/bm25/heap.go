package bm25

import "container/heap"

// Result is one scored document from a BM25 search.
type Result struct {
	DocID string
	Score float64
}

// scoreHeap orders by ascending score, with ties broken so the
// lexicographically larger id sorts first; this makes the heap's root
// (index 0) the current worst-ranked kept result, per spec: top-k by
// score, ties broken by id.
type scoreHeap []Result

func (h scoreHeap) Len() int { return len(h) }
func (h scoreHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].DocID > h[j].DocID
}
func (h scoreHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scoreHeap) Push(x interface{}) {
	*h = append(*h, x.(Result))
}
func (h *scoreHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topK keeps the best-scoring k results seen via push, evicting the
// current worst on overflow.
type topK struct {
	h        scoreHeap
	capacity int
}

func newTopK(capacity int) *topK {
	t := &topK{capacity: capacity}
	heap.Init(&t.h)
	return t
}

func (t *topK) push(r Result) {
	if t.h.Len() < t.capacity {
		heap.Push(&t.h, r)
		return
	}
	if t.h.Len() == 0 {
		return
	}
	worst := t.h[0]
	if r.Score < worst.Score || (r.Score == worst.Score && r.DocID >= worst.DocID) {
		return
	}
	heap.Pop(&t.h)
	heap.Push(&t.h, r)
}

// items returns a copy of the set sorted best-first (descending score,
// ascending id on ties), leaving the set itself unchanged.
func (t *topK) items() []Result {
	out := make([]Result, t.h.Len())
	cp := append(scoreHeap{}, t.h...)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&cp).(Result)
	}
	return out
}
