package analyzer

import (
	"fmt"

	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

// ItemKind tags which of the three declaration families a schema item
// belongs to, used by migration validation to look up an item's fields.
type ItemKind uint8

const (
	ItemNode ItemKind = iota
	ItemEdge
	ItemVector
)

// reservedFieldNames are the synthetic field names that the traversal
// runtime resolves on every node/edge/vector (id and label everywhere,
// from_node/to_node on edges, data/score on vectors); a schema author may
// not redeclare them. The schema pass does not add them to the declared
// schemas; it only reserves the names.
var reservedFieldNames = map[string]bool{
	"id": true, "label": true, "to_node": true, "from_node": true,
	"data": true, "score": true,
}

// SchemaVersionMap is the schema pass's output: the set of declared
// node/edge/vector types (only the single latest version is kept — see
// migrations.go) keyed by name, plus the
// migrations that transform older property sets into it.
type SchemaVersionMap struct {
	Nodes      map[string]ast.NodeSchema
	Edges      map[string]ast.EdgeSchema
	Vectors    map[string]ast.VectorSchema
	Migrations []ast.Migration

	// kindOf resolves an item name to which family it belongs to, built
	// once so migration validation doesn't re-scan all three maps.
	kindOf map[string]ItemKind
}

// KindOf reports which declaration family name belongs to.
func (sm *SchemaVersionMap) KindOf(name string) (ItemKind, bool) {
	k, ok := sm.kindOf[name]
	return k, ok
}

// AnalyzeSchema runs the schema pass: builds the SchemaVersionMap and
// validates duplicate definitions, reserved field names, and that only
// built-in types appear in schema fields (spec.md §4.F — "identifiers and
// nested objects are rejected"). No synthetic fields are added to the
// declared schemas.
func AnalyzeSchema(schema *ast.Schema) (*SchemaVersionMap, Diagnostics) {
	var diags Diagnostics
	sm := &SchemaVersionMap{
		Nodes:   map[string]ast.NodeSchema{},
		Edges:   map[string]ast.EdgeSchema{},
		Vectors: map[string]ast.VectorSchema{},
		kindOf:  map[string]ItemKind{},
	}

	for _, n := range schema.Nodes {
		if _, dup := sm.Nodes[n.Name]; dup {
			diags = append(diags, errf(E101DuplicateNode, n.Loc, "duplicate node schema %q", n.Name))
			continue
		}
		diags = append(diags, checkFields(n.Fields)...)
		sm.Nodes[n.Name] = n
		sm.kindOf[n.Name] = ItemNode
	}
	for _, e := range schema.Edges {
		if _, dup := sm.Edges[e.Name]; dup {
			diags = append(diags, errf(E102DuplicateEdge, e.Loc, "duplicate edge schema %q", e.Name))
			continue
		}
		if _, ok := sm.Nodes[e.From]; !ok {
			diags = append(diags, errf(E106UnknownEdgeEnd, e.Loc, "edge %q: unknown From node type %q", e.Name, e.From))
		}
		if _, ok := sm.Nodes[e.To]; !ok {
			diags = append(diags, errf(E106UnknownEdgeEnd, e.Loc, "edge %q: unknown To node type %q", e.Name, e.To))
		}
		diags = append(diags, checkFields(e.Properties)...)
		sm.Edges[e.Name] = e
		sm.kindOf[e.Name] = ItemEdge
	}
	for _, v := range schema.Vectors {
		if _, dup := sm.Vectors[v.Name]; dup {
			diags = append(diags, errf(E103DuplicateVector, v.Loc, "duplicate vector schema %q", v.Name))
			continue
		}
		diags = append(diags, checkFields(v.Fields)...)
		sm.Vectors[v.Name] = v
		sm.kindOf[v.Name] = ItemVector
	}

	sm.Migrations = schema.Migrations
	diags = append(diags, validateMigrations(sm)...)

	return sm, diags
}

// checkFields validates one declaration's field list against the schema
// pass's two rules: no reserved names, no identifier/nested-object types.
func checkFields(fields []ast.Field) Diagnostics {
	var diags Diagnostics
	for _, f := range fields {
		if reservedFieldNames[f.Name] {
			diags = append(diags, errf(E104ReservedFieldName, f.Loc,
				"field %q uses a reserved name", f.Name).withHint(
				"rename the field; id/label/to_node/from_node/data/score are synthesized automatically"))
		}
		diags = append(diags, checkFieldType(f.Name, f.Type)...)
	}
	return diags
}

func checkFieldType(fieldName string, t ast.FieldType) Diagnostics {
	var diags Diagnostics
	switch t.Kind {
	case ast.FieldIdentifier:
		diags = append(diags, errf(E105UnknownFieldType, t.Loc,
			"field %q: %q is not a built-in type (schema fields may not reference other declared types)", fieldName, t.Name))
	case ast.FieldObject:
		diags = append(diags, errf(E105UnknownFieldType, t.Loc,
			"field %q: nested object types are not allowed in a schema declaration", fieldName))
	case ast.FieldArray:
		if t.Of != nil {
			diags = append(diags, checkFieldType(fieldName, *t.Of)...)
		}
	}
	return diags
}

func errf(code Code, loc ast.Loc, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		File:     loc.File,
		Line:     loc.Line,
		Col:      loc.Col,
	}
}

func (d Diagnostic) withHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}
