package storage

import (
	"bytes"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

func indexPrefix(label, property string) []byte {
	return []byte(label + "\x00" + property + "\x00")
}

func indexValueBytes(tx *bolt.Tx, v types.Value) ([]byte, error) {
	e := newEncoder(tx)
	if err := e.putValue(v); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// indexedProperties returns the descriptors declared for label.
func (e *Engine) indexedProperties(label string) []types.SecondaryIndexDescriptor {
	var out []types.SecondaryIndexDescriptor
	for _, d := range e.config.GraphConfig.SecondaryIndices {
		if d.Label == label {
			out = append(out, d)
		}
	}
	return out
}

// PutNode encodes and writes n, maintaining secondary indexes for every
// indexed property of n.Label. A Unique violation aborts the write
// transaction without partial effect (the caller's Update call rolls back).
func (w *WriteTxn) PutNode(n *types.Node) error {
	data, err := encodeNode(w.tx, n)
	if err != nil {
		return herrors.Wrap(herrors.Transient, "encoding node", err)
	}

	idxBucket := w.tx.Bucket(bucketSecondaryIndex)
	for _, d := range w.e.indexedProperties(n.Label) {
		v, ok := n.Properties.Get(d.Property)
		if !ok {
			continue
		}
		vb, err := indexValueBytes(w.tx, v)
		if err != nil {
			return herrors.Wrap(herrors.Transient, "encoding indexed value", err)
		}
		prefix := indexPrefix(n.Label, d.Property)
		switch d.Kind {
		case types.IndexUnique:
			key := append(append([]byte{}, prefix...), vb...)
			if existing := idxBucket.Get(key); existing != nil && !bytes.Equal(existing, idBytes(n.ID)) {
				return herrors.Newf(herrors.UniquenessViolation,
					"duplicate value for unique property %s.%s", n.Label, d.Property)
			}
			if err := idxBucket.Put(key, idBytes(n.ID)); err != nil {
				return herrors.Wrap(herrors.Transient, "writing unique index", err)
			}
		case types.IndexMulti:
			key := append(append(append([]byte{}, prefix...), vb...), idBytes(n.ID)...)
			if err := idxBucket.Put(key, []byte{}); err != nil {
				return herrors.Wrap(herrors.Transient, "writing multi index", err)
			}
		}
	}

	if err := w.tx.Bucket(bucketNodes).Put(idBytes(n.ID), data); err != nil {
		return herrors.Wrap(herrors.Transient, "writing node", err)
	}
	return nil
}

// GetNode decodes the node stored at id.
func (r *ReadTxn) GetNode(id types.ID) (*types.Node, error) {
	data := r.tx.Bucket(bucketNodes).Get(idBytes(id))
	if data == nil {
		return nil, herrors.ErrNodeNotFound
	}
	n, err := decodeNode(r.tx, id, data)
	if err != nil {
		return nil, herrors.Wrap(herrors.Transient, "decoding node", err)
	}
	return n, nil
}

// dropNodeSecondaryIndexes removes every secondary-index entry matching the
// node's current property values, prior to deleting the node itself.
func (w *WriteTxn) dropNodeSecondaryIndexes(n *types.Node) error {
	idxBucket := w.tx.Bucket(bucketSecondaryIndex)
	for _, d := range w.e.indexedProperties(n.Label) {
		v, ok := n.Properties.Get(d.Property)
		if !ok {
			continue
		}
		vb, err := indexValueBytes(w.tx, v)
		if err != nil {
			return herrors.Wrap(herrors.Transient, "encoding indexed value", err)
		}
		prefix := indexPrefix(n.Label, d.Property)
		switch d.Kind {
		case types.IndexUnique:
			if err := idxBucket.Delete(append(append([]byte{}, prefix...), vb...)); err != nil {
				return herrors.Wrap(herrors.Transient, "deleting unique index entry", err)
			}
		case types.IndexMulti:
			key := append(append(append([]byte{}, prefix...), vb...), idBytes(n.ID)...)
			if err := idxBucket.Delete(key); err != nil {
				return herrors.Wrap(herrors.Transient, "deleting multi index entry", err)
			}
		}
	}
	return nil
}

// DropNode deletes n and cascades: every incident edge (outgoing and
// incoming) is removed first, with both adjacency mirrors, then secondary
// index entries, then the node record itself.
func (w *WriteTxn) DropNode(id types.ID) error {
	n, err := w.GetNode(id)
	if err != nil {
		return err
	}

	outIDs, err := w.outgoingEdgeIDs(id)
	if err != nil {
		return err
	}
	for _, eid := range outIDs {
		if err := w.DropEdge(eid); err != nil {
			return err
		}
	}
	inIDs, err := w.incomingEdgeIDs(id)
	if err != nil {
		return err
	}
	for _, eid := range inIDs {
		if err := w.DropEdge(eid); err != nil {
			return err
		}
	}

	if err := w.dropNodeSecondaryIndexes(n); err != nil {
		return err
	}

	if err := w.tx.Bucket(bucketNodes).Delete(idBytes(id)); err != nil {
		return herrors.Wrap(herrors.Transient, "deleting node", fmt.Errorf("node %s: %w", id, err))
	}
	return nil
}
