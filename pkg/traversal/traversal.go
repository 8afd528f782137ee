package traversal

import (
	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
	"github.com/cuemby/helixdb/pkg/vector"
)

// Txn is the read surface a traversal needs from the storage engine.
// Both *storage.ReadTxn and *storage.WriteTxn satisfy it (WriteTxn embeds
// ReadTxn), so source/step/filter operators work unchanged in either a
// read or a write traversal.
type Txn interface {
	GetNode(types.ID) (*types.Node, error)
	GetEdge(types.ID) (*types.Edge, error)
	GetVector(types.ID) (*types.HVector, error)
	OutEdges(nodeID types.ID, label string) ([]storage.AdjacencyEntry, error)
	InEdges(nodeID types.ID, label string) ([]storage.AdjacencyEntry, error)
	NodesByLabel(label string) ([]*types.Node, error)
	EdgesByLabel(label string) ([]*types.Edge, error)
	LookupUniqueIndex(label, property string, value types.Value) (types.ID, bool, error)
	LookupMultiIndex(label, property string, value types.Value) ([]types.ID, error)
	AllVectors(label string) ([]*types.HVector, error)
	GetPostings(term string) ([]storage.Posting, error)
	GetStats() (storage.BM25Stats, error)
	GetDocLength(types.ID) (uint32, bool, error)
}

// Traversal is the builder handle threaded through a compiled handler: it
// pins the transaction, arena, storage engine, and vector index a pipeline
// needs, and carries the pipeline's current Seq. Source operators replace
// Seq outright; step/filter/order operators wrap the existing one.
type Traversal struct {
	txn    Txn
	wtxn   *storage.WriteTxn // non-nil only when opened for writes
	engine *storage.Engine
	vec    *vector.Index
	arena  *Arena

	Seq Seq
}

// New builds a read-only Traversal over rtxn.
func New(engine *storage.Engine, rtxn *storage.ReadTxn, vec *vector.Index, ar *Arena) *Traversal {
	return &Traversal{txn: rtxn, engine: engine, vec: vec, arena: ar}
}

// NewWrite builds a write-capable Traversal over wtxn. Mutation operators
// (add_n, add_edge, insert_v, update, drop) require this form; calling
// them on a Traversal built with New fails with InvariantViolation.
func NewWrite(engine *storage.Engine, wtxn *storage.WriteTxn, vec *vector.Index, ar *Arena) *Traversal {
	return &Traversal{txn: wtxn, wtxn: wtxn, engine: engine, vec: vec, arena: ar}
}

// writeTxn returns the underlying WriteTxn or an InvariantViolation
// error if this traversal was opened read-only; mutation operators call
// this before touching the store.
func (t *Traversal) writeTxn() (*storage.WriteTxn, error) {
	if t.wtxn == nil {
		return nil, herrors.New(herrors.InvariantViolation, "mutation operator used in a read-only traversal")
	}
	return t.wtxn, nil
}

// chain replaces t.Seq with next and returns t, the fluent-builder pattern
// every operator method uses.
func (t *Traversal) chain(next Seq) *Traversal {
	t.Seq = next
	return t
}

// CollectToVec drains the pipeline fully, stopping at (and returning) the
// first error. This is the "collect-or-fail" terminal consumer of
// spec.md §7.
func CollectToVec(seq Seq) ([]TraversalValue, error) {
	var out []TraversalValue
	var firstErr error
	seq(func(it Item) bool {
		if it.Err != nil {
			firstErr = it.Err
			return false
		}
		out = append(out, it.Value)
		return true
	})
	return out, firstErr
}

// CollectFiltered drains the pipeline to completion, silently discarding
// any item carrying an error. This is the "filter-then-continue" terminal
// consumer of spec.md §7.
func CollectFiltered(seq Seq) []TraversalValue {
	var out []TraversalValue
	seq(func(it Item) bool {
		if it.Err == nil {
			out = append(out, it.Value)
		}
		return true
	})
	return out
}

// First returns the first successful value, or found=false if the
// sequence is empty or its first element errors.
func First(seq Seq) (TraversalValue, bool, error) {
	var v TraversalValue
	var err error
	found := false
	seq(func(it Item) bool {
		if it.Err != nil {
			err = it.Err
			return false
		}
		v, found = it.Value, true
		return false
	})
	return v, found, err
}
