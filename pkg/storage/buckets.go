package storage

// Named key-value databases hosted by a single store, per spec.md §4.B.
// out_edges_db/in_edges_db and the per-index secondary maps permit
// duplicate keys (bolt emulates this with a composite key suffix, see
// edges.go and nodes.go).
var (
	bucketNodes          = []byte("nodes_db")
	bucketEdges          = []byte("edges_db")
	bucketOutEdges       = []byte("out_edges_db")
	bucketInEdges        = []byte("in_edges_db")
	bucketVectors        = []byte("vectors_db")
	bucketHNSWNeighbors  = []byte("hnsw_neighbors_db")
	bucketHNSWMeta       = []byte("hnsw_meta_db") // entry_point, max_level
	bucketBM25Postings   = []byte("bm25_postings_db")
	bucketBM25DocLengths = []byte("bm25_doclen_db")
	bucketBM25Stats      = []byte("bm25_stats_db")
	bucketLabelInterner  = []byte("label_interner_db")
	bucketVersionInfo    = []byte("version_info_db")
	bucketSecondaryIndex = []byte("secondary_index_db") // sub-keyed by label+property
)

var allBuckets = [][]byte{
	bucketNodes,
	bucketEdges,
	bucketOutEdges,
	bucketInEdges,
	bucketVectors,
	bucketHNSWNeighbors,
	bucketHNSWMeta,
	bucketBM25Postings,
	bucketBM25DocLengths,
	bucketBM25Stats,
	bucketLabelInterner,
	bucketVersionInfo,
	bucketSecondaryIndex,
}

const entryPointKey = "entry_point"
const maxLevelKey = "max_level"
const schemaVersionKey = "schema_version"

const currentSchemaVersion = 1
