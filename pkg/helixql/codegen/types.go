// Package codegen implements HelixQL's code generator: given an
// analyzer.Result (a type-checked schema + query set), it emits Go
// source text for one handler function per query, a config() function,
// and one Migration_<item>_<from>_<to> function per Migration block,
// grounded on original_source/helix-db's helixc::generator (the
// deterministic-AST-to-source-text contract spec.md §4.F describes). The
// source text is built directly with strings.Builder and fmt; no
// text/template is used.
package codegen

import (
	"fmt"

	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

// goType maps a HelixQL field type onto the Go type its value is decoded
// into on the request-struct side of a generated handler.
func goType(t ast.FieldType) string {
	switch t.Kind {
	case ast.FieldString, ast.FieldDate:
		return "string"
	case ast.FieldUUID:
		return "types.ID"
	case ast.FieldBool:
		return "bool"
	case ast.FieldI8, ast.FieldI16, ast.FieldI32, ast.FieldI64:
		return "int64"
	case ast.FieldU8, ast.FieldU16, ast.FieldU32, ast.FieldU64, ast.FieldU128:
		return "uint64"
	case ast.FieldF32, ast.FieldF64:
		return "float64"
	case ast.FieldArray:
		if t.Of != nil {
			return "[]" + goType(*t.Of)
		}
		return "[]any"
	case ast.FieldObject:
		return "map[string]any"
	default:
		return "any"
	}
}

// valueCtor names the types.*Value constructor that wraps a Go value of
// goType(t) into a types.Value, used when building a types.PropertyMap
// from an object-literal field whose value is a plain Go expression
// rather than a nested traversal.
func valueCtor(t ast.FieldType) (fn string, needsConv bool) {
	switch t.Kind {
	case ast.FieldString:
		return "types.StringValue", false
	case ast.FieldDate:
		return "types.StringValue", false
	case ast.FieldUUID:
		return "types.UUIDValue", false
	case ast.FieldBool:
		return "types.BoolValue", false
	case ast.FieldI8, ast.FieldI16, ast.FieldI32, ast.FieldI64:
		return "types.I64Value", false
	case ast.FieldU8, ast.FieldU16, ast.FieldU32, ast.FieldU64, ast.FieldU128:
		return "types.U64Value", false
	case ast.FieldF32, ast.FieldF64:
		return "types.F64Value", false
	default:
		return "", true
	}
}

// literalValueExpr renders a parsed literal as a Go expression producing
// a types.Value, used for object-literal fields and migration LITERAL
// mappings alike.
func literalValueExpr(v ast.FieldValue) string {
	switch v.Kind {
	case ast.ValString:
		return fmt.Sprintf("types.StringValue(%q)", v.Str)
	case ast.ValInt:
		return fmt.Sprintf("types.I64Value(%d)", v.Int)
	case ast.ValFloat:
		return fmt.Sprintf("types.F64Value(%v)", v.Float)
	case ast.ValBool:
		return fmt.Sprintf("types.BoolValue(%t)", v.Bool)
	case ast.ValArray:
		elems := make([]string, len(v.Array))
		for i, e := range v.Array {
			elems[i] = literalValueExpr(e)
		}
		return fmt.Sprintf("types.ArrayValue([]types.Value{%s})", join(elems, ", "))
	default:
		return "types.Null"
	}
}

func join(ss []string, sep string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}
