package vector

import (
	"github.com/google/btree"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
)

func (idx *Index) capacity(level int) int {
	if level == 0 {
		return idx.cfg.M * 2
	}
	return idx.cfg.M
}

func dist(metric types.DistanceMetric, a, b []float64) float64 {
	d, _ := Distance(metric, a, b)
	return d
}

// Insert adds vec to the index, assigning its level, greedy-descending
// from the current entry point, and connecting it at every level from
// min(entryLevel, its own level) down to 0, applying the shrinking rule at
// each connection. Per spec.md §4.C.
func (idx *Index) Insert(w *storage.WriteTxn, vec *types.HVector) error {
	if len(vec.Data) != idx.cfg.Dimensions {
		return herrors.Newf(herrors.InvalidInput, "dimension mismatch: vector has %d, index wants %d",
			len(vec.Data), idx.cfg.Dimensions)
	}

	epID, epLevel, found, err := w.EntryPoint()
	if err != nil {
		return err
	}

	vec.Level = idx.assignLevel()

	if !found {
		if err := w.PutVector(vec); err != nil {
			return err
		}
		return w.SetEntryPoint(vec.ID, vec.Level)
	}

	best := epID
	bestVec, err := w.GetVector(best)
	if err != nil {
		return err
	}
	bestDist := dist(idx.cfg.Metric, vec.Data, bestVec.Data)

	// Greedy descend above min(epLevel, vec.Level)+1.
	for level := epLevel; level > vec.Level; level-- {
		best, bestDist, err = idx.greedyStep(w, best, bestDist, vec.Data, level)
		if err != nil {
			return err
		}
	}

	for level := min(epLevel, vec.Level); level >= 0; level-- {
		neighbors, err := idx.searchLayer(w, vec.Data, best, idx.cfg.EfConstruction, level)
		if err != nil {
			return err
		}
		levelCap := idx.capacity(level)
		chosen := selectClosest(neighbors, levelCap)
		for _, n := range chosen {
			nID, err := types.ParseID(n.id)
			if err != nil {
				continue
			}
			if err := idx.connect(w, level, vec.ID, nID, n.distance); err != nil {
				return err
			}
			if err := idx.connect(w, level, nID, vec.ID, n.distance); err != nil {
				return err
			}
		}
		if len(chosen) > 0 {
			if id, err := types.ParseID(chosen[0].id); err == nil {
				best, bestDist = id, chosen[0].distance
			}
		}
	}

	if err := w.PutVector(vec); err != nil {
		return err
	}
	if vec.Level > epLevel {
		return w.SetEntryPoint(vec.ID, vec.Level)
	}
	return nil
}

func (idx *Index) greedyStep(w *storage.WriteTxn, best types.ID, bestDist float64, query []float64, level int) (types.ID, float64, error) {
	for {
		neighbors, err := w.GetNeighbors(best, level)
		if err != nil {
			return best, bestDist, err
		}
		improved := false
		for _, n := range neighbors {
			nv, err := w.GetVector(n.ID)
			if err != nil {
				continue
			}
			d := dist(idx.cfg.Metric, query, nv.Data)
			if d < bestDist {
				best, bestDist, improved = n.ID, d, true
			}
		}
		if !improved {
			return best, bestDist, nil
		}
	}
}

// searchLayer runs a bounded best-first search at one level, starting from
// entry, returning up to ef candidates sorted by ascending distance.
func (idx *Index) searchLayer(w *storage.WriteTxn, query []float64, entry types.ID, ef int, level int) ([]candidate, error) {
	entryVec, err := w.GetVector(entry)
	if err != nil {
		return nil, err
	}
	visited := map[types.ID]bool{entry: true}
	startDist := dist(idx.cfg.Metric, query, entryVec.Data)

	frontier := newCandidateQueue()
	frontier.Push(candidate{id: entry.String(), distance: startDist})
	results := newBoundedResults(ef)
	results.Push(candidate{id: entry.String(), distance: startDist})

	for frontier.Len() > 0 {
		c := frontier.Pop()
		worst, ok := results.PeekWorst()
		if ok && results.Len() >= ef && c.distance > worst.distance {
			break
		}
		id, err := types.ParseID(c.id)
		if err != nil {
			continue
		}
		neighbors, err := w.GetNeighbors(id, level)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if visited[n.ID] {
				continue
			}
			visited[n.ID] = true
			nv, err := w.GetVector(n.ID)
			if err != nil {
				continue
			}
			d := dist(idx.cfg.Metric, query, nv.Data)
			frontier.Push(candidate{id: n.ID.String(), distance: d})
			results.Push(candidate{id: n.ID.String(), distance: d})
		}
	}
	return results.Items(), nil
}

// neighborItem orders btree entries by distance, then by id to break ties
// deterministically.
type neighborItem struct {
	id       types.ID
	distance float64
}

func (a neighborItem) Less(than btree.Item) bool {
	b := than.(neighborItem)
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.id.String() < b.id.String()
}

// selectClosest returns the closest `limit` candidates out of neighbors,
// using an in-memory google/btree to order them rather than a full sort,
// matching the shrinking rule's "prune to the closest M" step. The btree
// only ever holds this one node's candidate set; it is discarded after the
// call, never persisted (the persisted form is the sorted slice written by
// SetNeighbors).
func selectClosest(neighbors []candidate, limit int) []candidate {
	tr := btree.New(8)
	for _, n := range neighbors {
		id, err := types.ParseID(n.id)
		if err != nil {
			continue
		}
		tr.ReplaceOrInsert(neighborItem{id: id, distance: n.distance})
	}
	out := make([]candidate, 0, limit)
	tr.Ascend(func(item btree.Item) bool {
		if len(out) >= limit {
			return false
		}
		ni := item.(neighborItem)
		out = append(out, candidate{id: ni.id.String(), distance: ni.distance})
		return true
	})
	return out
}

// connect appends `to` to `from`'s neighbor list at level and re-applies
// the shrinking rule: if the list now exceeds capacity, prune to the
// closest entries by distance.
func (idx *Index) connect(w *storage.WriteTxn, level int, from, to types.ID, distance float64) error {
	existing, err := w.GetNeighbors(from, level)
	if err != nil {
		return err
	}
	cands := make([]candidate, 0, len(existing)+1)
	for _, n := range existing {
		if n.ID == to {
			return nil // already connected
		}
		cands = append(cands, candidate{id: n.ID.String(), distance: n.Distance})
	}
	cands = append(cands, candidate{id: to.String(), distance: distance})

	levelCap := idx.capacity(level)
	chosen := selectClosest(cands, levelCap)

	out := make([]storage.Neighbor, 0, len(chosen))
	for _, c := range chosen {
		id, err := types.ParseID(c.id)
		if err != nil {
			continue
		}
		out = append(out, storage.Neighbor{ID: id, Distance: c.distance})
	}
	return w.SetNeighbors(from, level, out)
}

// Search returns the top k nearest neighbors of query. pred, if non-nil, is
// a pre-filter: vectors failing it are never added to the result set but
// are still traversed, since they may lie on the path to good matches.
func (idx *Index) Search(r *storage.ReadTxn, query []float64, k int, pred func(*types.HVector) bool) ([]types.HVector, error) {
	if len(query) != idx.cfg.Dimensions {
		return nil, herrors.Newf(herrors.InvalidInput, "dimension mismatch: query has %d, index wants %d",
			len(query), idx.cfg.Dimensions)
	}
	entry, entryLevel, found, err := r.EntryPoint()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, herrors.ErrEmptyIndex
	}

	entryVec, err := r.GetVector(entry)
	if err != nil {
		return nil, err
	}
	best := entry
	bestDist := dist(idx.cfg.Metric, query, entryVec.Data)

	for level := entryLevel; level > 0; level-- {
		for {
			neighbors, err := r.GetNeighbors(best, level)
			if err != nil {
				return nil, err
			}
			improved := false
			for _, n := range neighbors {
				nv, err := r.GetVector(n.ID)
				if err != nil {
					continue
				}
				d := dist(idx.cfg.Metric, query, nv.Data)
				if d < bestDist {
					best, bestDist, improved = n.ID, d, true
				}
			}
			if !improved {
				break
			}
		}
	}

	ef := idx.cfg.EfSearch
	if k > ef {
		ef = k
	}
	results, err := idx.searchLayerRead(r, query, best, ef, 0, pred)
	if err != nil {
		return nil, err
	}
	if k < len(results) {
		results = results[:k]
	}
	return idx.materialize(r, results)
}

func (idx *Index) searchLayerRead(r *storage.ReadTxn, query []float64, entry types.ID, ef int, level int, pred func(*types.HVector) bool) ([]candidate, error) {
	entryVec, err := r.GetVector(entry)
	if err != nil {
		return nil, err
	}
	visited := map[types.ID]bool{entry: true}
	startDist := dist(idx.cfg.Metric, query, entryVec.Data)

	frontier := newCandidateQueue()
	frontier.Push(candidate{id: entry.String(), distance: startDist})
	results := newBoundedResults(ef)
	if pred == nil || pred(entryVec) {
		results.Push(candidate{id: entry.String(), distance: startDist})
	}

	for frontier.Len() > 0 {
		c := frontier.Pop()
		if worst, ok := results.PeekWorst(); ok && results.Len() >= ef && c.distance > worst.distance {
			break
		}
		id, err := types.ParseID(c.id)
		if err != nil {
			continue
		}
		neighbors, err := r.GetNeighbors(id, level)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if visited[n.ID] {
				continue
			}
			visited[n.ID] = true
			nv, err := r.GetVector(n.ID)
			if err != nil {
				continue
			}
			d := dist(idx.cfg.Metric, query, nv.Data)
			frontier.Push(candidate{id: n.ID.String(), distance: d})
			if pred == nil || pred(nv) {
				results.Push(candidate{id: n.ID.String(), distance: d})
			}
		}
	}
	return results.Items(), nil
}

func (idx *Index) materialize(r *storage.ReadTxn, cands []candidate) ([]types.HVector, error) {
	out := make([]types.HVector, 0, len(cands))
	for _, c := range cands {
		id, err := types.ParseID(c.id)
		if err != nil {
			continue
		}
		v, err := r.GetVector(id)
		if err != nil {
			continue
		}
		d := c.distance
		v.Distance = &d
		out = append(out, *v)
	}
	return out, nil
}

// BruteForceSearch linearly scans every vector (optionally filtered by
// label), used when ef_search >= N, for deterministic test oracles, or
// when the caller supplies an externally constrained candidate set.
func (idx *Index) BruteForceSearch(r *storage.ReadTxn, query []float64, k int, label string) ([]types.HVector, error) {
	if len(query) != idx.cfg.Dimensions {
		return nil, herrors.Newf(herrors.InvalidInput, "dimension mismatch: query has %d, index wants %d",
			len(query), idx.cfg.Dimensions)
	}
	all, err := r.AllVectors(label)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, herrors.ErrEmptyIndex
	}
	results := newBoundedResults(k)
	byID := make(map[string]*types.HVector, len(all))
	for _, v := range all {
		d := dist(idx.cfg.Metric, query, v.Data)
		results.Push(candidate{id: v.ID.String(), distance: d})
		byID[v.ID.String()] = v
	}
	items := results.Items()
	out := make([]types.HVector, 0, len(items))
	for _, c := range items {
		v := *byID[c.id]
		d := c.distance
		v.Distance = &d
		out = append(out, v)
	}
	return out, nil
}
