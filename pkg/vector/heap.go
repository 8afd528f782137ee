package vector

import "container/heap"

// candidate is one entry in the search frontier: a node id paired with its
// distance to the query. id is a stand-in for any comparable handle
// (types.ID in practice); kept generic here as a string (the ID's text
// form, from ID.String()) so the heap types don't depend on pkg/types.
type candidate struct {
	id       string
	distance float64
}

// minHeap is the "candidates to explore" queue from the original's
// BinaryHeap<Reverse<Candidate>>: smallest distance first.
type minHeap []candidate

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].distance < h[j].distance }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// maxHeap is the "current best-k" set, capped at ef: largest (worst)
// distance at the root so evicting the worst is O(log n) and PeekWorst
// is O(1).
type maxHeap []candidate

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].distance > h[j].distance }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// candidateQueue wraps minHeap behind Push/Pop/Len so callers never touch
// container/heap directly.
type candidateQueue struct{ h minHeap }

func newCandidateQueue() *candidateQueue {
	q := &candidateQueue{}
	heap.Init(&q.h)
	return q
}

func (q *candidateQueue) Push(c candidate) { heap.Push(&q.h, c) }
func (q *candidateQueue) Pop() candidate   { return heap.Pop(&q.h).(candidate) }
func (q *candidateQueue) Len() int         { return q.h.Len() }
func (q *candidateQueue) PeekBest() candidate { return q.h[0] }

// boundedResults wraps maxHeap, capped at capacity: pushing past capacity
// evicts the current worst element if the new one is better.
type boundedResults struct {
	h        maxHeap
	capacity int
}

func newBoundedResults(capacity int) *boundedResults {
	r := &boundedResults{capacity: capacity}
	heap.Init(&r.h)
	return r
}

func (r *boundedResults) Len() int { return r.h.Len() }

func (r *boundedResults) PeekWorst() (candidate, bool) {
	if r.h.Len() == 0 {
		return candidate{}, false
	}
	return r.h[0], true
}

// Push adds c, evicting the current worst if the set is already at
// capacity and c is better than it. Reports whether c was kept.
func (r *boundedResults) Push(c candidate) bool {
	if r.h.Len() < r.capacity {
		heap.Push(&r.h, c)
		return true
	}
	worst, _ := r.PeekWorst()
	if c.distance >= worst.distance {
		return false
	}
	heap.Pop(&r.h)
	heap.Push(&r.h, c)
	return true
}

// Items returns a copy of the set's contents sorted by ascending distance
// (best first), leaving the set itself unchanged.
func (r *boundedResults) Items() []candidate {
	out := make([]candidate, r.h.Len())
	cp := append(maxHeap{}, r.h...)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&cp).(candidate)
	}
	return out
}
