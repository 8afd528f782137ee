package codegen

import (
	"fmt"
	"strings"

	"github.com/cuemby/helixdb/pkg/helixql/analyzer"
	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

func isNumericFieldKind(k ast.FieldTypeKind) bool {
	switch k {
	case ast.FieldI8, ast.FieldI16, ast.FieldI32, ast.FieldI64,
		ast.FieldU8, ast.FieldU16, ast.FieldU32, ast.FieldU64, ast.FieldU128,
		ast.FieldF32, ast.FieldF64:
		return true
	default:
		return false
	}
}

// numericConv renders the Go expression converting a float64 named f into
// the literal numeric type a cast's target kind implies, used alongside
// valueCtor to build the types.*Value constructor call.
func numericConv(k ast.FieldTypeKind, f string) string {
	switch k {
	case ast.FieldF32, ast.FieldF64:
		return f
	case ast.FieldU8, ast.FieldU16, ast.FieldU32, ast.FieldU64, ast.FieldU128:
		return fmt.Sprintf("uint64(%s)", f)
	default:
		return fmt.Sprintf("int64(%s)", f)
	}
}

// generateMigrations emits one Migration_<item>_<from>_<to> function per
// schema migration block: a pure property-map transform taking the
// previous version's properties and returning the next version's,
// matching spec.md §4.F's "migration_<item>_<from>_<to> functions taking
// a property map and returning the migrated map". A COPY mapping passes
// the source field through unchanged if present; LITERAL sets a constant;
// CAST reinterprets a numeric field's width/precision, falling back to a
// plain passthrough of the original value for non-numeric casts (spec.md
// doesn't define string<->bool<->date coercion rules, so codegen doesn't
// invent one).
func generateMigrations(pkgName string, sm *analyzer.SchemaVersionMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by pkg/helixql/codegen. DO NOT EDIT.\n\npackage %s\n", pkgName)
	if len(sm.Migrations) == 0 {
		b.WriteString("\n// No schema migrations are declared in this project.\n")
		return b.String()
	}
	b.WriteString("\nimport \"" + importPath + "/pkg/types\"\n\n")

	for _, m := range sm.Migrations {
		fname := fmt.Sprintf("Migration_%s_%d_%d", m.ItemName, m.FromVersion, m.ToVersion)
		fmt.Fprintf(&b, "// %s migrates a %s property map from schema version %d to %d.\n",
			fname, m.ItemName, m.FromVersion, m.ToVersion)
		fmt.Fprintf(&b, "func %s(in types.PropertyMap) types.PropertyMap {\n", fname)
		b.WriteString("\tout := types.NewPropertyMap()\n")
		for _, mm := range m.Mappings {
			switch mm.Kind {
			case ast.MapCopy:
				fmt.Fprintf(&b, "\tif v, ok := in.Get(%q); ok {\n\t\tout.Set(%q, v)\n\t}\n", mm.SourceField, mm.DestField)
			case ast.MapLiteral:
				fmt.Fprintf(&b, "\tout.Set(%q, %s)\n", mm.DestField, literalValueExpr(*mm.Literal))
			case ast.MapCast:
				if mm.CastTo != nil && isNumericFieldKind(mm.CastTo.Kind) {
					ctor, _ := valueCtor(*mm.CastTo)
					fmt.Fprintf(&b, "\tif v, ok := in.Get(%q); ok {\n", mm.SourceField)
					b.WriteString("\t\tif f, fok := v.AsFloat64(); fok {\n")
					fmt.Fprintf(&b, "\t\t\tout.Set(%q, %s(%s))\n", mm.DestField, ctor, numericConv(mm.CastTo.Kind, "f"))
					b.WriteString("\t\t}\n\t}\n")
				} else {
					fmt.Fprintf(&b, "\tif v, ok := in.Get(%q); ok {\n\t\tout.Set(%q, v)\n\t}\n", mm.SourceField, mm.DestField)
				}
			}
		}
		b.WriteString("\treturn out\n}\n\n")
	}

	return b.String()
}
