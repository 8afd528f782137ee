/*
Package types defines HelixDB's persistent data model.

Every entity (Node, Edge, HVector) is addressed by a time-ordered 128-bit
ID (UUIDv7), globally unique across entity kinds. Properties are a dynamic,
serializable Value union (null, bool, integer widths, floats, string, date,
uuid, array, object) held in an insertion-stable PropertyMap, where an
absent field is distinct from a field present with an explicit null.

Node labels are immutable once created; Edge endpoints are immutable once
set, and an Edge may declare Unique to forbid more than one edge of its
label between the same ordered (From, To) pair. HVector carries an optional
Distance, populated only inside a search result.

Config is the resolved, enumerated settings record a store is opened with:
HNSW tuning (VectorConfig), per-label secondary index declarations
(GraphConfig), the on-disk size cap, and feature toggles (MCP, BM25).
*/
package types
