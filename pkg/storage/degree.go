package storage

import (
	"sort"

	"github.com/cuemby/helixdb/pkg/types"
)

// NodeCardinality is one result row of GetNodesByCardinality: a node and
// its full adjacency, ordered by descending total degree.
type NodeCardinality struct {
	Node     *types.Node
	Degree   int
	OutEdges []AdjacencyEntry
	InEdges  []AdjacencyEntry
}

// GetNodesByCardinality scans out_edges_db and in_edges_db to compute
// degree per node and returns the top k nodes by degree with their
// adjacency lists, for the graph visualization endpoint. A small LRU
// fronts node decoding since the same high-degree nodes are touched
// repeatedly while walking adjacency (see pkg/storage's decode cache).
func (r *ReadTxn) GetNodesByCardinality(k int) ([]NodeCardinality, error) {
	degree := make(map[types.ID]int)

	for _, bucketName := range [][]byte{bucketOutEdges, bucketInEdges} {
		b := r.tx.Bucket(bucketName)
		err := b.ForEach(func(key, _ []byte) error {
			if len(key) < 16 {
				return nil
			}
			var id types.ID
			if err := id.UnmarshalBinary(key[:16]); err != nil {
				return nil
			}
			degree[id]++
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	ids := make([]types.ID, 0, len(degree))
	for id := range degree {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if degree[ids[i]] != degree[ids[j]] {
			return degree[ids[i]] > degree[ids[j]]
		}
		return ids[i].String() < ids[j].String()
	})
	if k < len(ids) {
		ids = ids[:k]
	}

	cache := newNodeDecodeCache(256)
	out := make([]NodeCardinality, 0, len(ids))
	for _, id := range ids {
		node, ok := cache.get(id)
		if !ok {
			var err error
			node, err = r.GetNode(id)
			if err != nil {
				continue // node may have been dropped; skip from visualization
			}
			cache.put(id, node)
		}
		outEdges, err := r.OutEdges(id, "")
		if err != nil {
			return nil, err
		}
		inEdges, err := r.InEdges(id, "")
		if err != nil {
			return nil, err
		}
		out = append(out, NodeCardinality{
			Node: node, Degree: degree[id], OutEdges: outEdges, InEdges: inEdges,
		})
	}
	return out, nil
}
