// Package storage is HelixDB's embedded storage engine: a single
// memory-mapped, copy-on-write B+tree (go.etcd.io/bbolt) hosting every
// named bucket from spec.md §4.B, with single-writer/many-reader MVCC
// snapshot isolation supplied directly by bbolt's transaction model.
package storage

import (
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

// Engine is the single store handle shared immutably across gateway
// workers; bbolt provides its own internal synchronization, per spec.md §5.
type Engine struct {
	db     *bolt.DB
	config types.Config
}

// Open opens (creating if absent) a store rooted at dataDir, ensuring every
// named bucket exists.
func Open(dataDir string, cfg types.Config) (*Engine, error) {
	dbPath := filepath.Join(dataDir, "helixdb.db")

	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, herrors.Wrap(herrors.Transient, "opening storage file", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("creating bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, herrors.Wrap(herrors.Transient, "initializing buckets", err)
	}

	return &Engine{db: db, config: cfg}, nil
}

// Close closes the underlying store.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Config returns the resolved configuration the store was opened with.
func (e *Engine) Config() types.Config { return e.config }

// ReadTxn wraps a read-only bbolt transaction with HelixDB's typed CRUD
// surface. It observes a consistent snapshot taken when the enclosing View
// call began.
type ReadTxn struct {
	tx *bolt.Tx
	e  *Engine
}

// WriteTxn additionally exposes mutating operations. Only one WriteTxn is
// ever open at a time (bbolt's single-writer lock).
type WriteTxn struct {
	ReadTxn
}

// View runs fn inside a read-only transaction.
func (e *Engine) View(fn func(*ReadTxn) error) error {
	return e.db.View(func(tx *bolt.Tx) error {
		return fn(&ReadTxn{tx: tx, e: e})
	})
}

// Update runs fn inside an exclusive write transaction. If fn returns an
// error, bbolt rolls the transaction back without a partial commit, per
// spec.md §7's writer-never-partial-commits policy.
func (e *Engine) Update(fn func(*WriteTxn) error) error {
	return e.db.Update(func(tx *bolt.Tx) error {
		return fn(&WriteTxn{ReadTxn{tx: tx, e: e}})
	})
}

// beginRead opens a standalone read transaction that the caller must
// rollback explicitly. Used by tests that need to hold a snapshot open
// across a later write; Engine.View is preferred for all production code
// since it can't leak a transaction.
func (e *Engine) beginRead() (*ReadTxn, error) {
	tx, err := e.db.Begin(false)
	if err != nil {
		return nil, err
	}
	return &ReadTxn{tx: tx, e: e}, nil
}

func (r *ReadTxn) rollback() error {
	return r.tx.Rollback()
}

func idBytes(id types.ID) []byte {
	b, _ := id.MarshalBinary()
	return b
}

// NodeCount implements metrics.StatsSource.
func (e *Engine) NodeCount() (uint64, error) {
	var n uint64
	err := e.View(func(r *ReadTxn) error {
		n = uint64(r.tx.Bucket(bucketNodes).Stats().KeyN)
		return nil
	})
	return n, err
}

// EdgeCount implements metrics.StatsSource.
func (e *Engine) EdgeCount() (uint64, error) {
	var n uint64
	err := e.View(func(r *ReadTxn) error {
		n = uint64(r.tx.Bucket(bucketEdges).Stats().KeyN)
		return nil
	})
	return n, err
}

// VectorCountByLabel implements metrics.StatsSource by scanning the vector
// bucket once; acceptable since it only runs on the 15-second collector
// tick, not per request.
func (e *Engine) VectorCountByLabel() (map[string]uint64, error) {
	out := make(map[string]uint64)
	err := e.View(func(r *ReadTxn) error {
		b := r.tx.Bucket(bucketVectors)
		return b.ForEach(func(k, v []byte) error {
			var id types.ID
			if err := id.UnmarshalBinary(k); err != nil {
				return nil
			}
			vec, err := decodeVector(r.tx, id, v)
			if err != nil {
				return nil
			}
			out[vec.Label]++
			return nil
		})
	})
	return out, err
}

// BM25TermCount implements metrics.StatsSource.
func (e *Engine) BM25TermCount() (uint64, error) {
	var n uint64
	err := e.View(func(r *ReadTxn) error {
		n = uint64(r.tx.Bucket(bucketBM25Postings).Stats().KeyN)
		return nil
	})
	return n, err
}
