package types

import "encoding/json"

// ToJSON renders v as a plain Go value ready for encoding/json — string,
// bool, int64/uint64/float64, []any, or map[string]any — the shape the
// HTTP wire format (spec.md §6) requires. uuid and date values render as
// their RFC-4122/RFC-3339 string forms, already how Str stores them.
func (v Value) ToJSON() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindI8, KindI16, KindI32, KindI64:
		return v.Int
	case KindU8, KindU16, KindU32, KindU64:
		return v.Uint
	case KindF32:
		return float64(v.F32)
	case KindF64:
		return v.F64
	case KindString, KindDate, KindUUID:
		return v.Str
	case KindArray:
		out := make([]any, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = e.ToJSON()
		}
		return out
	case KindObject:
		return v.Obj.ToJSON()
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler by delegating to ToJSON, so a Value
// nested inside any struct serializes to its bare wire representation
// rather than exposing the tagged-union fields.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToJSON())
}

// ToJSON renders m as a map keyed by field name.
func (m PropertyMap) ToJSON() map[string]any {
	out := make(map[string]any, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out[k] = v.ToJSON()
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (m PropertyMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToJSON())
}
