package analyzer

import (
	"strconv"

	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

// validateMigrations checks every Migration block against the rules
// spec.md §4.F lists: both the item's From/To version numbers are sane,
// the target field exists in the (single, latest) declared schema, a
// cast's target type matches the schema's declared type for that field,
// and a literal mapping's value is assignable to the target field's type.
// A Migration names a single item, used as both its source and its
// target, so no cross-kind check is made and E205 is never emitted.
func validateMigrations(sm *SchemaVersionMap) Diagnostics {
	var diags Diagnostics
	seen := map[string]bool{}

	for _, m := range sm.Migrations {
		key := migrationKey(m)
		if seen[key] {
			diags = append(diags, errf(E107DuplicateMigration, m.Loc,
				"duplicate migration for %q %d -> %d", m.ItemName, m.FromVersion, m.ToVersion))
			continue
		}
		seen[key] = true

		if m.FromVersion <= 0 || m.ToVersion <= 0 || m.FromVersion >= m.ToVersion {
			diags = append(diags, errf(E208UnknownMigrationVersion, m.Loc,
				"migration %q: from_version (%d) must be positive and less than to_version (%d)",
				m.ItemName, m.FromVersion, m.ToVersion))
			continue
		}

		kind, ok := sm.KindOf(m.ItemName)
		if !ok {
			diags = append(diags, errf(E208UnknownMigrationVersion, m.Loc,
				"migration %q: unknown item (no N::/E::/V:: declaration with this name)", m.ItemName))
			continue
		}

		targetFields := fieldsOf(sm, m.ItemName, kind)
		for _, mapping := range m.Mappings {
			diags = append(diags, validateMapping(m, mapping, targetFields)...)
		}
	}
	return diags
}

func migrationKey(m ast.Migration) string {
	return m.ItemName + ":" + strconv.Itoa(m.FromVersion) + "->" + strconv.Itoa(m.ToVersion)
}

// fieldsOf returns the declared field set of a schema item; a kind it
// does not recognise yields an empty map (can't happen given the kindOf
// lookup already succeeded).
func fieldsOf(sm *SchemaVersionMap, itemName string, kind ItemKind) map[string]ast.FieldType {
	fields := map[string]ast.FieldType{}
	switch kind {
	case ItemNode:
		for _, f := range sm.Nodes[itemName].Fields {
			fields[f.Name] = f.Type
		}
	case ItemEdge:
		for _, f := range sm.Edges[itemName].Properties {
			fields[f.Name] = f.Type
		}
	case ItemVector:
		for _, f := range sm.Vectors[itemName].Fields {
			fields[f.Name] = f.Type
		}
	}
	return fields
}

func validateMapping(m ast.Migration, mapping ast.ItemMapping, targetFields map[string]ast.FieldType) Diagnostics {
	var diags Diagnostics
	destType, ok := targetFields[mapping.DestField]
	if !ok {
		diags = append(diags, errf(E209UnknownMigrationField, mapping.Loc,
			"migration %q: target field %q does not exist in the %q schema", m.ItemName, mapping.DestField, m.ItemName))
		return diags
	}

	switch mapping.Kind {
	case ast.MapCast:
		if mapping.CastTo == nil || mapping.CastTo.Kind != destType.Kind {
			diags = append(diags, errf(E206BadCastTarget, mapping.Loc,
				"migration %q: cast target type for %q does not match the schema's declared type", m.ItemName, mapping.DestField))
		}
	case ast.MapLiteral:
		if mapping.Literal != nil && !literalAssignable(*mapping.Literal, destType) {
			diags = append(diags, errf(E207UnassignableLiteral, mapping.Loc,
				"migration %q: literal for %q is not assignable to its declared type", m.ItemName, mapping.DestField))
		}
	case ast.MapCopy:
		// Source-field existence in the prior version's schema is not
		// checked: the prior version's declaration is not retained once
		// superseded (SchemaVersionMap keeps only the latest), so a copy
		// mapping is validated only at the destination end, same as a
		// cast or literal mapping.
	}
	return diags
}

// literalAssignable reports whether a parsed literal value can populate a
// field declared with the given type, covering the scalar kinds a
// migration body is allowed to supply directly.
func literalAssignable(v ast.FieldValue, t ast.FieldType) bool {
	switch t.Kind {
	case ast.FieldString, ast.FieldDate, ast.FieldUUID:
		return v.Kind == ast.ValString || v.Kind == ast.ValNone
	case ast.FieldBool:
		return v.Kind == ast.ValBool || v.Kind == ast.ValNone
	case ast.FieldI8, ast.FieldI16, ast.FieldI32, ast.FieldI64,
		ast.FieldU8, ast.FieldU16, ast.FieldU32, ast.FieldU64, ast.FieldU128:
		return v.Kind == ast.ValInt || v.Kind == ast.ValNone
	case ast.FieldF32, ast.FieldF64:
		return v.Kind == ast.ValFloat || v.Kind == ast.ValInt || v.Kind == ast.ValNone
	case ast.FieldArray:
		return v.Kind == ast.ValArray || v.Kind == ast.ValNone
	default:
		return v.Kind == ast.ValNone
	}
}
