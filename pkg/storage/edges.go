package storage

import (
	"bytes"
	"fmt"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

// Adjacency keys are fromBytes(16) || label || 0x00 || edgeIDBytes(16),
// mapping to toBytes(16) (and symmetrically for in_edges_db). The label is
// embedded so a label-filtered step can prefix-scan directly; a cascading
// drop prefix-scans on the 16-byte node id alone and parses out the label.
func adjacencyKey(nodeID types.ID, label string, edgeID types.ID) []byte {
	key := make([]byte, 0, 16+len(label)+1+16)
	key = append(key, idBytes(nodeID)...)
	key = append(key, []byte(label)...)
	key = append(key, 0)
	key = append(key, idBytes(edgeID)...)
	return key
}

func adjacencyLabelPrefix(nodeID types.ID, label string) []byte {
	key := make([]byte, 0, 16+len(label)+1)
	key = append(key, idBytes(nodeID)...)
	key = append(key, []byte(label)...)
	key = append(key, 0)
	return key
}

func parseAdjacencyKey(nodeID types.ID, key []byte) (label string, edgeID types.ID, ok bool) {
	if len(key) < 16+16+1 || !bytes.HasPrefix(key, idBytes(nodeID)) {
		return "", types.ID{}, false
	}
	rest := key[16:]
	sep := bytes.IndexByte(rest, 0)
	if sep < 0 || sep+1+16 != len(rest) {
		return "", types.ID{}, false
	}
	label = string(rest[:sep])
	if err := edgeID.UnmarshalBinary(rest[sep+1:]); err != nil {
		return "", types.ID{}, false
	}
	return label, edgeID, true
}

// AddEdge verifies both endpoints exist, optionally enforces the unique
// constraint by probing out_edges_db, then writes the edge record and both
// adjacency mirrors.
func (w *WriteTxn) AddEdge(from, to types.ID, label string, props types.PropertyMap, unique bool) (*types.Edge, error) {
	if _, err := w.GetNode(from); err != nil {
		return nil, err
	}
	if _, err := w.GetNode(to); err != nil {
		return nil, err
	}

	if unique {
		prefix := adjacencyLabelPrefix(from, label)
		c := w.tx.Bucket(bucketOutEdges).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if bytes.Equal(v, idBytes(to)) {
				return nil, herrors.Newf(herrors.UniquenessViolation,
					"duplicate unique edge %s from %s to %s", label, from, to)
			}
		}
	}

	edge := &types.Edge{
		ID: types.NewID(), Label: label, From: from, To: to,
		Unique: unique, Properties: props,
	}
	data, err := encodeEdge(w.tx, edge)
	if err != nil {
		return nil, herrors.Wrap(herrors.Transient, "encoding edge", err)
	}
	if err := w.tx.Bucket(bucketEdges).Put(idBytes(edge.ID), data); err != nil {
		return nil, herrors.Wrap(herrors.Transient, "writing edge", err)
	}
	if err := w.tx.Bucket(bucketOutEdges).Put(adjacencyKey(from, label, edge.ID), idBytes(to)); err != nil {
		return nil, herrors.Wrap(herrors.Transient, "writing out_edges mirror", err)
	}
	if err := w.tx.Bucket(bucketInEdges).Put(adjacencyKey(to, label, edge.ID), idBytes(from)); err != nil {
		return nil, herrors.Wrap(herrors.Transient, "writing in_edges mirror", err)
	}
	return edge, nil
}

// PutEdgeProperties rewrites the property map of the edge at id, preserving
// its label and endpoints (which are immutable once set per spec.md §3).
func (w *WriteTxn) PutEdgeProperties(id types.ID, props types.PropertyMap) error {
	e, err := w.GetEdge(id)
	if err != nil {
		return err
	}
	e.Properties = props
	data, err := encodeEdge(w.tx, e)
	if err != nil {
		return herrors.Wrap(herrors.Transient, "encoding edge", err)
	}
	if err := w.tx.Bucket(bucketEdges).Put(idBytes(id), data); err != nil {
		return herrors.Wrap(herrors.Transient, "writing edge", err)
	}
	return nil
}

// GetEdge decodes the edge stored at id.
func (r *ReadTxn) GetEdge(id types.ID) (*types.Edge, error) {
	data := r.tx.Bucket(bucketEdges).Get(idBytes(id))
	if data == nil {
		return nil, herrors.ErrEdgeNotFound
	}
	e, err := decodeEdge(r.tx, id, data)
	if err != nil {
		return nil, herrors.Wrap(herrors.Transient, "decoding edge", err)
	}
	return e, nil
}

// DropEdge deletes the edge and both adjacency mirrors.
func (w *WriteTxn) DropEdge(id types.ID) error {
	e, err := w.GetEdge(id)
	if err != nil {
		return err
	}
	if err := w.tx.Bucket(bucketOutEdges).Delete(adjacencyKey(e.From, e.Label, e.ID)); err != nil {
		return herrors.Wrap(herrors.Transient, "deleting out_edges mirror", err)
	}
	if err := w.tx.Bucket(bucketInEdges).Delete(adjacencyKey(e.To, e.Label, e.ID)); err != nil {
		return herrors.Wrap(herrors.Transient, "deleting in_edges mirror", err)
	}
	if err := w.tx.Bucket(bucketEdges).Delete(idBytes(id)); err != nil {
		return herrors.Wrap(herrors.Transient, "deleting edge", fmt.Errorf("edge %s: %w", id, err))
	}
	return nil
}

// AdjacencyEntry is one (edge id, neighbor id) pair from an adjacency scan.
type AdjacencyEntry struct {
	EdgeID     types.ID
	NeighborID types.ID
	Label      string
}

// OutEdges returns outgoing edges from nodeID, optionally filtered to one
// label (pass "" for all labels).
func (r *ReadTxn) OutEdges(nodeID types.ID, label string) ([]AdjacencyEntry, error) {
	return r.scanAdjacency(bucketOutEdges, nodeID, label)
}

// InEdges returns incoming edges to nodeID, optionally filtered to one label.
func (r *ReadTxn) InEdges(nodeID types.ID, label string) ([]AdjacencyEntry, error) {
	return r.scanAdjacency(bucketInEdges, nodeID, label)
}

func (r *ReadTxn) scanAdjacency(bucketName []byte, nodeID types.ID, label string) ([]AdjacencyEntry, error) {
	b := r.tx.Bucket(bucketName)
	var prefix []byte
	if label != "" {
		prefix = adjacencyLabelPrefix(nodeID, label)
	} else {
		prefix = idBytes(nodeID)
	}
	var out []AdjacencyEntry
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		lbl, edgeID, ok := parseAdjacencyKey(nodeID, k)
		if !ok {
			continue
		}
		var neighbor types.ID
		if err := neighbor.UnmarshalBinary(v); err != nil {
			continue
		}
		out = append(out, AdjacencyEntry{EdgeID: edgeID, NeighborID: neighbor, Label: lbl})
	}
	return out, nil
}

func (w *WriteTxn) outgoingEdgeIDs(nodeID types.ID) ([]types.ID, error) {
	entries, err := w.OutEdges(nodeID, "")
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(entries))
	for i, e := range entries {
		ids[i] = e.EdgeID
	}
	return ids, nil
}

func (w *WriteTxn) incomingEdgeIDs(nodeID types.ID) ([]types.ID, error) {
	entries, err := w.InEdges(nodeID, "")
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(entries))
	for i, e := range entries {
		ids[i] = e.EdgeID
	}
	return ids, nil
}
