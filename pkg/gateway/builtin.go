package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/protocol"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
)

// maxNodesEdgesLimit caps GET /nodes-edges per spec.md §6 ("limit=<n≤300>").
const maxNodesEdgesLimit = 300

func nodeJSON(n *types.Node) map[string]any {
	out := n.Properties.ToJSON()
	out["id"] = n.ID.String()
	out["label"] = n.Label
	return out
}

func edgeJSON(e *types.Edge) map[string]any {
	out := e.Properties.ToJSON()
	out["id"] = e.ID.String()
	out["label"] = e.Label
	out["from_node"] = e.From.String()
	out["to_node"] = e.To.String()
	return out
}

func vectorJSON(v *types.HVector) map[string]any {
	out := v.Properties.ToJSON()
	out["id"] = v.ID.String()
	out["label"] = v.Label
	out["data"] = v.Data
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	data, status := protocol.EncodeError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func parseLimit(r *http.Request, max, def int) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, herrors.New(herrors.InvalidInput, "limit must be a non-negative integer")
	}
	if n > max {
		n = max
	}
	return n, nil
}

// handleNodesEdges implements GET /nodes-edges, spec.md §6: a graph-
// visualization snapshot of every node/edge (optionally filtered by
// node_label) plus every vector and summary stats.
func (g *Gateway) handleNodesEdges(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, maxNodesEdgesLimit, maxNodesEdgesLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	nodeLabel := r.URL.Query().Get("node_label")

	var nodes []*types.Node
	var edges []*types.Edge
	var vectors []*types.HVector

	err = g.engine.View(func(rtx *storage.ReadTxn) error {
		var verr error
		nodes, verr = rtx.NodesByLabel(nodeLabel)
		if verr != nil {
			return verr
		}
		edges, verr = rtx.AllEdges()
		if verr != nil {
			return verr
		}
		vectors, verr = rtx.AllVectors("")
		return verr
	})
	if err != nil {
		writeError(w, err)
		return
	}

	numNodes, numEdges, numVectors := len(nodes), len(edges), len(vectors)
	if len(nodes) > limit {
		nodes = nodes[:limit]
	}
	if len(edges) > limit {
		edges = edges[:limit]
	}
	if len(vectors) > limit {
		vectors = vectors[:limit]
	}

	nodesOut := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		nodesOut[i] = nodeJSON(n)
	}
	edgesOut := make([]map[string]any, len(edges))
	for i, e := range edges {
		edgesOut[i] = edgeJSON(e)
	}
	vectorsOut := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		vectorsOut[i] = vectorJSON(v)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"nodes": nodesOut,
			"edges": edgesOut,
		},
		"vectors": vectorsOut,
		"stats": map[string]any{
			"num_nodes":   numNodes,
			"num_edges":   numEdges,
			"num_vectors": numVectors,
		},
	})
}

// handleNodeDetails implements GET /node-details?id=<uuid>, spec.md §6.
func (g *Gateway) handleNodeDetails(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	id, err := types.ParseID(idStr)
	if err != nil {
		writeError(w, herrors.Newf(herrors.InvalidInput, "invalid id %q", idStr))
		return
	}

	var node *types.Node
	found := true
	err = g.engine.View(func(rtx *storage.ReadTxn) error {
		n, gerr := rtx.GetNode(id)
		if herrors.IsCategory(gerr, herrors.NotFound) {
			found = false
			return nil
		}
		if gerr != nil {
			return gerr
		}
		node = n
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"node": nil, "found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"node": nodeJSON(node), "found": true})
}

// handleNodesByLabel implements GET /nodes-by-label?label=<L>&limit=<n>,
// spec.md §6.
func (g *Gateway) handleNodesByLabel(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("label")
	if label == "" {
		writeError(w, herrors.New(herrors.InvalidInput, "label is required"))
		return
	}
	limit, err := parseLimit(r, maxNodesEdgesLimit, maxNodesEdgesLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	var nodes []*types.Node
	err = g.engine.View(func(rtx *storage.ReadTxn) error {
		var verr error
		nodes, verr = rtx.NodesByLabel(label)
		return verr
	})
	if err != nil {
		writeError(w, err)
		return
	}

	count := len(nodes)
	if len(nodes) > limit {
		nodes = nodes[:limit]
	}
	out := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		out[i] = nodeJSON(n)
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": out, "count": count})
}
