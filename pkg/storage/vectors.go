package storage

import (
	"encoding/binary"
	"math"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

// PutVector encodes and writes vec. The HNSW graph structure itself (entry
// point, neighbor tables) is maintained separately by pkg/vector, which
// calls SetNeighbors/SetEntryPoint as part of the same write transaction.
func (w *WriteTxn) PutVector(vec *types.HVector) error {
	data, err := encodeVector(w.tx, vec)
	if err != nil {
		return herrors.Wrap(herrors.Transient, "encoding vector", err)
	}
	if err := w.tx.Bucket(bucketVectors).Put(idBytes(vec.ID), data); err != nil {
		return herrors.Wrap(herrors.Transient, "writing vector", err)
	}
	return nil
}

// GetVector decodes the vector stored at id.
func (r *ReadTxn) GetVector(id types.ID) (*types.HVector, error) {
	data := r.tx.Bucket(bucketVectors).Get(idBytes(id))
	if data == nil {
		return nil, herrors.ErrVectorNotFound
	}
	v, err := decodeVector(r.tx, id, data)
	if err != nil {
		return nil, herrors.Wrap(herrors.Transient, "decoding vector", err)
	}
	return v, nil
}

// DeleteVector removes the vector record. Neighbor-table and entry-point
// cleanup is pkg/vector's responsibility, since only it knows how to repair
// the graph around the removed node.
func (w *WriteTxn) DeleteVector(id types.ID) error {
	return w.tx.Bucket(bucketVectors).Delete(idBytes(id))
}

// AllVectors returns every vector in the store, optionally filtered by
// label, for brute-force search and for building the initial graph.
func (r *ReadTxn) AllVectors(label string) ([]*types.HVector, error) {
	var out []*types.HVector
	b := r.tx.Bucket(bucketVectors)
	err := b.ForEach(func(k, v []byte) error {
		var id types.ID
		if err := id.UnmarshalBinary(k); err != nil {
			return nil
		}
		vec, err := decodeVector(r.tx, id, v)
		if err != nil {
			return err
		}
		if label == "" || vec.Label == label {
			out = append(out, vec)
		}
		return nil
	})
	return out, err
}

// EntryPoint returns the store's single HNSW entry point and its level.
// found is false iff the vector table is empty.
func (r *ReadTxn) EntryPoint() (id types.ID, level int, found bool, err error) {
	b := r.tx.Bucket(bucketHNSWMeta)
	idBuf := b.Get([]byte(entryPointKey))
	if idBuf == nil {
		return types.ID{}, 0, false, nil
	}
	if err := id.UnmarshalBinary(idBuf); err != nil {
		return types.ID{}, 0, false, err
	}
	levelBuf := b.Get([]byte(maxLevelKey))
	if levelBuf != nil {
		level = int(binary.BigEndian.Uint64(levelBuf))
	}
	return id, level, true, nil
}

// SetEntryPoint promotes id/level to be the store's entry point. Because
// only one write transaction can ever be open, this assignment is
// effectively the compare-and-swap spec.md §4.C calls for: the caller reads
// the prior value earlier in the same transaction and decides whether to
// call SetEntryPoint at all.
func (w *WriteTxn) SetEntryPoint(id types.ID, level int) error {
	b := w.tx.Bucket(bucketHNSWMeta)
	if err := b.Put([]byte(entryPointKey), idBytes(id)); err != nil {
		return herrors.Wrap(herrors.Transient, "setting entry point", err)
	}
	var levelBuf [8]byte
	binary.BigEndian.PutUint64(levelBuf[:], uint64(level))
	if err := b.Put([]byte(maxLevelKey), levelBuf[:]); err != nil {
		return herrors.Wrap(herrors.Transient, "setting max level", err)
	}
	return nil
}

// Neighbor is one entry of an HNSW neighbor list, sorted by ascending
// distance on disk.
type Neighbor struct {
	ID       types.ID
	Distance float64
}

func neighborKey(nodeID types.ID, level int) []byte {
	key := make([]byte, 16+8)
	copy(key, idBytes(nodeID))
	binary.BigEndian.PutUint64(key[16:], uint64(level))
	return key
}

// GetNeighbors returns nodeID's neighbor list at level, already sorted by
// ascending distance, or an empty slice if none is recorded.
func (r *ReadTxn) GetNeighbors(nodeID types.ID, level int) ([]Neighbor, error) {
	data := r.tx.Bucket(bucketHNSWNeighbors).Get(neighborKey(nodeID, level))
	if data == nil {
		return nil, nil
	}
	n := len(data) / 24
	out := make([]Neighbor, n)
	for i := 0; i < n; i++ {
		off := i * 24
		var id types.ID
		if err := id.UnmarshalBinary(data[off : off+16]); err != nil {
			return nil, err
		}
		bits := binary.LittleEndian.Uint64(data[off+16 : off+24])
		out[i] = Neighbor{ID: id, Distance: math.Float64frombits(bits)}
	}
	return out, nil
}

// SetNeighbors replaces nodeID's neighbor list at level. neighbors must
// already be sorted by ascending distance; the shrinking rule that caps the
// list length is pkg/vector's responsibility.
func (w *WriteTxn) SetNeighbors(nodeID types.ID, level int, neighbors []Neighbor) error {
	buf := make([]byte, 0, len(neighbors)*24)
	for _, nb := range neighbors {
		buf = append(buf, idBytes(nb.ID)...)
		var distBuf [8]byte
		binary.LittleEndian.PutUint64(distBuf[:], math.Float64bits(nb.Distance))
		buf = append(buf, distBuf[:]...)
	}
	if err := w.tx.Bucket(bucketHNSWNeighbors).Put(neighborKey(nodeID, level), buf); err != nil {
		return herrors.Wrap(herrors.Transient, "writing neighbor list", err)
	}
	return nil
}

// DeleteNeighbors removes nodeID's neighbor list at level, used when a
// vector is dropped.
func (w *WriteTxn) DeleteNeighbors(nodeID types.ID, level int) error {
	return w.tx.Bucket(bucketHNSWNeighbors).Delete(neighborKey(nodeID, level))
}
