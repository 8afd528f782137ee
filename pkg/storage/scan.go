package storage

import (
	"bytes"

	"github.com/cuemby/helixdb/pkg/types"
)

// NodesByLabel scans every node record, returning those whose label
// matches, or every node if label is empty. There is no label-prefixed
// primary key (nodes are keyed purely by id), so this is a full-bucket
// scan; callers that need this on a hot path should declare a secondary
// index instead.
func (r *ReadTxn) NodesByLabel(label string) ([]*types.Node, error) {
	var out []*types.Node
	b := r.tx.Bucket(bucketNodes)
	err := b.ForEach(func(k, v []byte) error {
		var id types.ID
		if err := id.UnmarshalBinary(k); err != nil {
			return nil
		}
		n, err := decodeNode(r.tx, id, v)
		if err != nil {
			return err
		}
		if label == "" || n.Label == label {
			out = append(out, n)
		}
		return nil
	})
	return out, err
}

// EdgesByLabel scans every edge record, returning those whose label
// matches, or every edge if label is empty.
func (r *ReadTxn) EdgesByLabel(label string) ([]*types.Edge, error) {
	var out []*types.Edge
	b := r.tx.Bucket(bucketEdges)
	err := b.ForEach(func(k, v []byte) error {
		var id types.ID
		if err := id.UnmarshalBinary(k); err != nil {
			return nil
		}
		e, err := decodeEdge(r.tx, id, v)
		if err != nil {
			return err
		}
		if label == "" || e.Label == label {
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

// AllNodes returns every node in the store, for the /nodes-edges
// introspection endpoint.
func (r *ReadTxn) AllNodes() ([]*types.Node, error) {
	return r.NodesByLabel("")
}

// AllEdges returns every edge in the store, for the /nodes-edges
// introspection endpoint.
func (r *ReadTxn) AllEdges() ([]*types.Edge, error) {
	return r.EdgesByLabel("")
}

// LookupUniqueIndex resolves the single node id holding value for the
// given label/property Unique index, or found=false if none does.
func (r *ReadTxn) LookupUniqueIndex(label, property string, value types.Value) (id types.ID, found bool, err error) {
	vb, err := indexValueBytes(r.tx, value)
	if err != nil {
		return types.ID{}, false, err
	}
	key := append(indexPrefix(label, property), vb...)
	data := r.tx.Bucket(bucketSecondaryIndex).Get(key)
	if data == nil {
		return types.ID{}, false, nil
	}
	if err := id.UnmarshalBinary(data); err != nil {
		return types.ID{}, false, err
	}
	return id, true, nil
}

// LookupMultiIndex resolves every node id holding value for the given
// label/property Index (duplicate-allowed) index.
func (r *ReadTxn) LookupMultiIndex(label, property string, value types.Value) ([]types.ID, error) {
	vb, err := indexValueBytes(r.tx, value)
	if err != nil {
		return nil, err
	}
	prefix := append(indexPrefix(label, property), vb...)
	var out []types.ID
	c := r.tx.Bucket(bucketSecondaryIndex).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		var id types.ID
		idBuf := k[len(prefix):]
		if len(idBuf) != 16 {
			continue
		}
		if err := id.UnmarshalBinary(idBuf); err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
