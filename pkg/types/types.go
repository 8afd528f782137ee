// Package types defines HelixDB's persistent data model: the Value union,
// PropertyMap, Node, Edge, HVector, and the resolved Config record.
package types

import (
	"time"

	"github.com/google/uuid"
)

// ID is a time-ordered 128-bit identifier, unique across every entity kind
// (node, edge, vector) in a store.
type ID = uuid.UUID

// NewID mints a time-ordered identifier (UUIDv7: monotonic, sortable by
// creation time, same property the storage engine relies on for its
// insertion-order-free key layout).
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails if the system clock read fails; fall back
		// to a random v4 rather than propagate an error from an id mint.
		return uuid.New()
	}
	return id
}

// ParseID parses the RFC-4122 string form used on the wire.
func ParseID(s string) (ID, error) {
	return uuid.Parse(s)
}

// ValueKind tags the dynamic type carried by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindF32
	KindF64
	KindString
	KindDate
	KindUUID
	KindArray
	KindObject
)

// Value is HelixDB's dynamic, serializable property value: a tagged union
// of null, bool, integer widths, floats, string, RFC-3339 date, uuid, array
// of Value, and object (PropertyMap). Exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind ValueKind

	Bool bool
	Int  int64   // i8..i64 share storage; Kind says which width
	Uint uint64  // u8..u64 share storage
	U128 [16]byte
	F32  float32
	F64  float64
	Str  string // also backs KindDate (RFC3339) and KindUUID (string form)
	Arr  []Value
	Obj  PropertyMap
}

// Null is the singleton null value.
var Null = Value{Kind: KindNull}

func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func I64Value(v int64) Value     { return Value{Kind: KindI64, Int: v} }
func U64Value(v uint64) Value    { return Value{Kind: KindU64, Uint: v} }
func F64Value(v float64) Value   { return Value{Kind: KindF64, F64: v} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func DateValue(t time.Time) Value {
	return Value{Kind: KindDate, Str: t.UTC().Format(time.RFC3339)}
}
func UUIDValue(id ID) Value { return Value{Kind: KindUUID, Str: id.String()} }
func ArrayValue(vs []Value) Value {
	return Value{Kind: KindArray, Arr: vs}
}
func ObjectValue(m PropertyMap) Value { return Value{Kind: KindObject, Obj: m} }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsFloat64 returns v's numeric content as a float64 for ordering/distance
// computations, and whether v was numeric at all.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindI8, KindI16, KindI32, KindI64:
		return float64(v.Int), true
	case KindU8, KindU16, KindU32, KindU64:
		return float64(v.Uint), true
	case KindF32:
		return float64(v.F32), true
	case KindF64:
		return v.F64, true
	default:
		return 0, false
	}
}

// Equal reports deep equality of two Values, used by filter/dedup/group
// operators that compare on Value rather than Go identity.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindI8, KindI16, KindI32, KindI64:
		return v.Int == o.Int
	case KindU8, KindU16, KindU32, KindU64:
		return v.Uint == o.Uint
	case KindU128:
		return v.U128 == o.U128
	case KindF32:
		return v.F32 == o.F32
	case KindF64:
		return v.F64 == o.F64
	case KindString, KindDate, KindUUID:
		return v.Str == o.Str
	case KindArray:
		if len(v.Arr) != len(o.Arr) {
			return false
		}
		for i := range v.Arr {
			if !v.Arr[i].Equal(o.Arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.Obj.Equal(o.Obj)
	default:
		return false
	}
}

// PropertyMap is an insertion-stable mapping from field name to Value. An
// absent field is distinct from a field present with an explicit null.
type PropertyMap struct {
	keys   []string
	values map[string]Value
}

// NewPropertyMap builds a PropertyMap, preserving the order fields are
// inserted via Set.
func NewPropertyMap() PropertyMap {
	return PropertyMap{values: make(map[string]Value)}
}

// Set inserts or overwrites a field, appending it to the insertion order the
// first time it's seen.
func (m *PropertyMap) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value for key and whether it was present at all.
func (m PropertyMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key entirely (distinguishing it from present-with-null).
func (m *PropertyMap) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns field names in insertion order.
func (m PropertyMap) Keys() []string { return m.keys }

// Len returns the number of present fields.
func (m PropertyMap) Len() int { return len(m.keys) }

// Clone returns a deep-enough copy safe to hold in an arena independent of
// the source map's future mutation.
func (m PropertyMap) Clone() PropertyMap {
	out := NewPropertyMap()
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// Equal reports whether two PropertyMaps have the same keys (any order) and
// values.
func (m PropertyMap) Equal(o PropertyMap) bool {
	if m.Len() != o.Len() {
		return false
	}
	for k, v := range m.values {
		ov, ok := o.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Merge returns a copy of m with every field of patch applied on top,
// preserving m's field order and appending any new fields from patch.
func (m PropertyMap) Merge(patch PropertyMap) PropertyMap {
	out := m.Clone()
	for _, k := range patch.keys {
		out.Set(k, patch.values[k])
	}
	return out
}

// Node is an immutable-label, mutable-properties graph vertex.
type Node struct {
	ID         ID
	Label      string
	Version    uint8
	Properties PropertyMap
}

// Edge connects two nodes (or a node and a vector) with immutable
// endpoints once created. Unique edges permit at most one instance per
// ordered (From, To) pair and label.
type Edge struct {
	ID         ID
	Label      string
	Version    uint8
	From       ID
	To         ID
	Unique     bool
	Properties PropertyMap
}

// DistanceMetric selects the HNSW/brute-force distance function.
type DistanceMetric string

const (
	MetricCosine     DistanceMetric = "cosine"
	MetricEuclidean  DistanceMetric = "euclidean"
	MetricDotProduct DistanceMetric = "dot_product"
)

// HVector is a dense vector entry in the HNSW-indexed vector store.
// Distance is populated only inside a search result, never at rest.
type HVector struct {
	ID         ID
	Label      string
	Level      int
	Data       []float64
	Properties PropertyMap
	Distance   *float64
}

// SecondaryIndexKind selects how a per-label property is indexed.
type SecondaryIndexKind string

const (
	// IndexUnique maps a value to at most one node id; violated inserts
	// fail with herrors.UniquenessViolation.
	IndexUnique SecondaryIndexKind = "unique"
	// IndexMulti maps a value to a duplicate-allowed set of node ids.
	IndexMulti SecondaryIndexKind = "index"
)

// SecondaryIndexDescriptor declares one indexed property of one node label.
type SecondaryIndexDescriptor struct {
	Label    string
	Property string
	Kind     SecondaryIndexKind
}

// VectorConfig tunes the HNSW index.
type VectorConfig struct {
	M              int // base connectivity, default 16
	EfConstruction int // default 128
	EfSearch       int // default 768
	Dimensions     int // configured D
	Metric         DistanceMetric
}

// DefaultVectorConfig returns the spec's default HNSW tuning for a given
// dimensionality and metric.
func DefaultVectorConfig(dimensions int, metric DistanceMetric) VectorConfig {
	return VectorConfig{
		M:              16,
		EfConstruction: 128,
		EfSearch:       768,
		Dimensions:     dimensions,
		Metric:         metric,
	}
}

// GraphConfig declares the secondary indices maintained on node properties.
type GraphConfig struct {
	SecondaryIndices []SecondaryIndexDescriptor
}

// Config is the resolved, enumerated configuration record embedded in a
// store and consumed by the host binary at startup.
type Config struct {
	VectorConfig      VectorConfig
	GraphConfig       GraphConfig
	DBMaxSizeGB       uint16
	MCP               bool
	BM25              bool
	Schema            string // JSON of declared types and queries, informational
	EmbeddingModel    *string
	GraphvisNodeLabel *string
}
