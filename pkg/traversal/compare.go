package traversal

import "github.com/cuemby/helixdb/pkg/types"

// Comparison predicates for use with Traversal.Where. Numeric comparisons
// fall back to false when either side isn't numeric; callers that need
// SchemaViolation on a type mismatch should check GetProperty themselves
// before calling Where.

func Eq(actual, want types.Value) bool { return actual.Equal(want) }
func Neq(actual, want types.Value) bool { return !actual.Equal(want) }

func Lt(actual, want types.Value) bool {
	a, aok := actual.AsFloat64()
	w, wok := want.AsFloat64()
	return aok && wok && a < w
}

func Lte(actual, want types.Value) bool {
	a, aok := actual.AsFloat64()
	w, wok := want.AsFloat64()
	return aok && wok && a <= w
}

func Gt(actual, want types.Value) bool {
	a, aok := actual.AsFloat64()
	w, wok := want.AsFloat64()
	return aok && wok && a > w
}

func Gte(actual, want types.Value) bool {
	a, aok := actual.AsFloat64()
	w, wok := want.AsFloat64()
	return aok && wok && a >= w
}
