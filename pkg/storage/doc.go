/*
Package storage is HelixDB's embedded storage engine.

A single go.etcd.io/bbolt database hosts every named bucket: nodes_db,
edges_db, out_edges_db/in_edges_db (adjacency, dup-keyed by label),
secondary_index_db (per-label per-property Unique/Index maps), vectors_db,
hnsw_neighbors_db, hnsw_meta_db (entry point), bm25_postings_db/
bm25_doclen_db/bm25_stats_db, label_interner_db, and version_info_db.

Records use a fixed, versioned binary layout (schema version byte, interned
label tag, field count, then name-tag/typed-value pairs) rather than JSON,
so label and field names never repeat on disk and decoding never needs a
schema registry beyond the interner.

Engine.View and Engine.Update mirror bbolt's read/write transaction split
directly: a read transaction observes a consistent snapshot of the
committed tree; a write transaction holds the single exclusive writer lock
for its full lifetime, and any error returned from the callback aborts the
transaction without partial effect.

PutNode/AddEdge/DropNode/DropEdge implement the operations of spec.md
§4.B, including secondary-index maintenance and cascading edge removal.
GetNodesByCardinality backs the graph visualization endpoint.
*/
package storage
