package traversal

import (
	"container/heap"
	"sort"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
)

// PathAlgo selects shortest_path's search strategy.
type PathAlgo int

const (
	AlgoBFS PathAlgo = iota
	AlgoDijkstra
)

// WeightFn computes the traversal cost of edge e from src to dst. The
// default implementation reads e.Properties["weight"], falling back to
// 1.0, per spec.md §4.E.
type WeightFn func(e *types.Edge, src, dst *types.Node) float64

// DefaultWeight is shortest_path's default WeightFn.
func DefaultWeight(e *types.Edge, _, _ *types.Node) float64 {
	if w, ok := e.Properties.Get("weight"); ok {
		if f, ok := w.AsFloat64(); ok {
			return f
		}
	}
	return 1.0
}

// ShortestPath starts a pipeline at the single shortest path from `from`
// to `to` (optionally restricted to one edge label), using algo. BFS
// counts hops; Dijkstra sums WeightFn and rejects negative weights with
// InvalidInput. Ties are broken by lower node id. Yields exactly one Path
// value, or NotFound if no path exists.
func (t *Traversal) ShortestPath(algo PathAlgo, label string, from, to types.ID, weight WeightFn) *Traversal {
	if weight == nil {
		weight = DefaultWeight
	}
	var path Path
	var err error
	switch algo {
	case AlgoBFS:
		path, err = t.bfsPath(label, from, to)
	case AlgoDijkstra:
		path, err = t.dijkstraPath(label, from, to, weight)
	default:
		err = herrors.Newf(herrors.InvalidInput, "unknown shortest_path algorithm %d", algo)
	}
	if err != nil {
		return t.chain(seqErr(err))
	}
	return t.chain(FromSlice([]TraversalValue{PathValue(path)}))
}

// pathStep records how a node was first reached during BFS/Dijkstra: the
// predecessor node and the edge used to arrive from it.
type pathStep struct {
	node types.ID
	via  types.ID
}

func sortByNeighbor(entries []storage.AdjacencyEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].NeighborID.String() < entries[j].NeighborID.String()
	})
}

func (t *Traversal) bfsPath(label string, from, to types.ID) (Path, error) {
	prev := map[types.ID]pathStep{from: {node: from}}
	queue := []types.ID{from}
	found := from == to

	for i := 0; i < len(queue) && !found; i++ {
		cur := queue[i]
		entries, err := t.txn.OutEdges(cur, label)
		if err != nil {
			return Path{}, err
		}
		sortByNeighbor(entries) // spec's tie-break: lower node id wins
		for _, e := range entries {
			if _, seen := prev[e.NeighborID]; seen {
				continue
			}
			prev[e.NeighborID] = pathStep{node: cur, via: e.EdgeID}
			if e.NeighborID == to {
				found = true
				break
			}
			queue = append(queue, e.NeighborID)
		}
	}
	if !found {
		return Path{}, herrors.ErrPathNotFound
	}
	return t.reconstructPath(prev, from, to)
}

func (t *Traversal) reconstructPath(prev map[types.ID]pathStep, from, to types.ID) (Path, error) {
	var nodeIDs []types.ID
	var edgeIDs []types.ID
	cur := to
	for {
		nodeIDs = append([]types.ID{cur}, nodeIDs...)
		if cur == from {
			break
		}
		s := prev[cur]
		edgeIDs = append([]types.ID{s.via}, edgeIDs...)
		cur = s.node
	}
	var path Path
	for _, id := range nodeIDs {
		n, err := t.txn.GetNode(id)
		if err != nil {
			return Path{}, err
		}
		path.Nodes = append(path.Nodes, *n)
	}
	for _, id := range edgeIDs {
		e, err := t.txn.GetEdge(id)
		if err != nil {
			return Path{}, err
		}
		path.Edges = append(path.Edges, *e)
	}
	return path, nil
}

type dijkstraItem struct {
	node types.ID
	dist float64
}
type dijkstraHeap []dijkstraItem

func (h dijkstraHeap) Len() int { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].node.String() < h[j].node.String()
}
func (h dijkstraHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *dijkstraHeap) Push(x interface{}) { *h = append(*h, x.(dijkstraItem)) }
func (h *dijkstraHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (t *Traversal) dijkstraPath(label string, from, to types.ID, weight WeightFn) (Path, error) {
	dist := map[types.ID]float64{from: 0}
	prev := map[types.ID]pathStep{from: {node: from}}
	visited := map[types.ID]bool{}

	pq := &dijkstraHeap{{node: from, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(dijkstraItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == to {
			break
		}
		srcNode, err := t.txn.GetNode(cur.node)
		if err != nil {
			return Path{}, err
		}
		entries, err := t.txn.OutEdges(cur.node, label)
		if err != nil {
			return Path{}, err
		}
		sortByNeighbor(entries)
		for _, ae := range entries {
			e, err := t.txn.GetEdge(ae.EdgeID)
			if err != nil {
				return Path{}, err
			}
			dstNode, err := t.txn.GetNode(ae.NeighborID)
			if err != nil {
				return Path{}, err
			}
			w := weight(e, srcNode, dstNode)
			if w < 0 {
				return Path{}, herrors.Newf(herrors.InvalidInput, "negative edge weight on edge %s", e.ID)
			}
			nd := cur.dist + w
			if existing, ok := dist[ae.NeighborID]; !ok || nd < existing {
				dist[ae.NeighborID] = nd
				prev[ae.NeighborID] = pathStep{node: cur.node, via: ae.EdgeID}
				heap.Push(pq, dijkstraItem{node: ae.NeighborID, dist: nd})
			}
		}
	}

	if _, ok := dist[to]; !ok && from != to {
		return Path{}, herrors.ErrPathNotFound
	}
	return t.reconstructPath(prev, from, to)
}
