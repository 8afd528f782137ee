package parser

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

func loc(p lexer.Position) ast.Loc {
	return ast.Loc{File: p.Filename, Line: p.Line, Col: p.Column}
}

var primitiveFieldTypes = map[string]ast.FieldTypeKind{
	"String": ast.FieldString,
	"I8":     ast.FieldI8,
	"I16":    ast.FieldI16,
	"I32":    ast.FieldI32,
	"I64":    ast.FieldI64,
	"U8":     ast.FieldU8,
	"U16":    ast.FieldU16,
	"U32":    ast.FieldU32,
	"U64":    ast.FieldU64,
	"U128":   ast.FieldU128,
	"F32":    ast.FieldF32,
	"F64":    ast.FieldF64,
	"Bool":   ast.FieldBool,
	"Date":   ast.FieldDate,
	"UUID":   ast.FieldUUID,
}

func convertType(t *typeRef) ast.FieldType {
	if t == nil {
		return ast.FieldType{Kind: ast.FieldString}
	}
	switch {
	case t.Array != nil:
		of := convertType(t.Array)
		return ast.FieldType{Kind: ast.FieldArray, Of: &of, Loc: loc(t.Pos)}
	case t.Object != nil:
		return ast.FieldType{Kind: ast.FieldObject, Fields: convertFields(t.Object), Loc: loc(t.Pos)}
	default:
		if kind, ok := primitiveFieldTypes[t.Name]; ok {
			return ast.FieldType{Kind: kind, Loc: loc(t.Pos)}
		}
		return ast.FieldType{Kind: ast.FieldIdentifier, Name: t.Name, Loc: loc(t.Pos)}
	}
}

func convertFields(fs []*fieldDecl) []ast.Field {
	out := make([]ast.Field, 0, len(fs))
	for _, f := range fs {
		out = append(out, ast.Field{
			Name:    f.Name,
			Type:    convertType(f.Type),
			Indexed: f.Indexed,
			Unique:  f.Unique,
			Loc:     loc(f.Pos),
		})
	}
	return out
}

func convertLiteral(l *literalValue) ast.FieldValue {
	if l == nil {
		return ast.FieldValue{Kind: ast.ValNone}
	}
	lc := loc(l.Pos)
	switch {
	case l.Str != nil:
		return ast.FieldValue{Kind: ast.ValString, Str: unquote(*l.Str), Loc: lc}
	case l.Float != nil:
		return ast.FieldValue{Kind: ast.ValFloat, Float: *l.Float, Loc: lc}
	case l.Int != nil:
		return ast.FieldValue{Kind: ast.ValInt, Int: *l.Int, Loc: lc}
	case l.Bool != nil:
		return ast.FieldValue{Kind: ast.ValBool, Bool: *l.Bool == "true", Loc: lc}
	case l.None:
		return ast.FieldValue{Kind: ast.ValNone, Loc: lc}
	case l.Array != nil:
		arr := make([]ast.FieldValue, 0, len(l.Array))
		for _, v := range l.Array {
			arr = append(arr, convertLiteral(v))
		}
		return ast.FieldValue{Kind: ast.ValArray, Array: arr, Loc: lc}
	default:
		return ast.FieldValue{Kind: ast.ValNone, Loc: lc}
	}
}

func unquote(s string) string {
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}
	return s
}

var sourceKindTable = map[string]map[bool]ast.TraversalSourceKind{
	"N": {false: ast.SourceNFromType, true: ast.SourceNFromID},
	"E": {false: ast.SourceEFromType, true: ast.SourceEFromID},
	"V": {false: ast.SourceVFromType, true: ast.SourceVFromID},
}

func convertTraversal(tr *traversalExpr) *ast.Traversal {
	if tr == nil {
		return nil
	}
	out := &ast.Traversal{Loc: loc(tr.Pos)}
	if tr.SourceKind != "" {
		out.SourceKind = sourceKindTable[tr.SourceKind][len(tr.SourceArgs) > 0]
		out.SourceLabel = tr.SourceType
		for _, a := range tr.SourceArgs {
			out.SourceArgs = append(out.SourceArgs, convertExpr(a))
		}
	} else {
		out.SourceKind = ast.SourceIdentifier
		out.SourceArgs = []ast.Expr{{Kind: ast.ExprIdentifier, Name: tr.SourceIdent, Loc: loc(tr.Pos)}}
	}
	for _, s := range tr.Steps {
		step := ast.Step{Name: s.Name, Loc: loc(s.Pos)}
		for _, a := range s.Args {
			step.Args = append(step.Args, convertExpr(a))
		}
		out.Steps = append(out.Steps, step)
	}
	return out
}

func convertExpr(e *expr) ast.Expr {
	if e == nil {
		return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.FieldValue{Kind: ast.ValNone}}
	}
	lc := loc(e.Pos)
	switch {
	case e.ObjectLiteral != nil:
		fields := make([]ast.ObjectField, 0, len(e.ObjectLiteral))
		for _, fa := range e.ObjectLiteral {
			v := convertExpr(fa.Value)
			fields = append(fields, ast.ObjectField{
				Name:  fa.Name,
				Value: &v,
				Loc:   loc(fa.Pos),
			})
		}
		return ast.Expr{Kind: ast.ExprObjectLiteral, Fields: fields, Loc: lc}
	case e.Traversal != nil:
		return ast.Expr{Kind: ast.ExprTraversal, Traversal: convertTraversal(e.Traversal), Loc: lc}
	case e.Literal != nil:
		return ast.Expr{Kind: ast.ExprLiteral, Literal: convertLiteral(e.Literal), Loc: lc}
	case e.ParamField != "":
		return ast.Expr{Kind: ast.ExprParameterAccess, Name: e.ParamField, Loc: lc}
	default:
		return ast.Expr{Kind: ast.ExprIdentifier, Name: e.Identifier, Loc: lc}
	}
}

func convertStatements(ss []*statementDecl) []ast.Statement {
	out := make([]ast.Statement, 0, len(ss))
	for _, s := range ss {
		out = append(out, convertStatement(s))
	}
	return out
}

func convertStatement(s *statementDecl) ast.Statement {
	lc := loc(s.Pos)
	switch {
	case s.AssignName != "":
		return ast.Statement{Kind: ast.StmtAssignment, AssignName: s.AssignName, AssignExpr: convertExpr(s.AssignExpr), Loc: lc}
	case s.ForSource != nil:
		names := []string{}
		switch {
		case s.ForVar1Bare != "":
			names = append(names, s.ForVar1Bare)
		default:
			names = append(names, s.ForVar1)
			if s.ForVar2 != "" {
				names = append(names, s.ForVar2)
			}
		}
		return ast.Statement{
			Kind:        ast.StmtForLoop,
			ForVarNames: names,
			ForSource:   convertExpr(s.ForSource),
			ForBody:     convertStatements(s.ForBody),
			Loc:         lc,
		}
	case s.DropExpr != nil:
		return ast.Statement{Kind: ast.StmtDrop, DropExpr: convertExpr(s.DropExpr), Loc: lc}
	default:
		return ast.Statement{Kind: ast.StmtExpr, Expr: convertExpr(s.BareExpr), Loc: lc}
	}
}

func convertParams(ps []*paramDecl) []ast.Parameter {
	out := make([]ast.Parameter, 0, len(ps))
	for _, p := range ps {
		out = append(out, ast.Parameter{
			Name:       p.Name,
			Type:       convertType(p.Type),
			IsOptional: p.IsOptional,
			Loc:        loc(p.Pos),
		})
	}
	return out
}

func convertReturns(rs []*returnBinding) []ast.ReturnBinding {
	out := make([]ast.ReturnBinding, 0, len(rs))
	for _, r := range rs {
		out = append(out, ast.ReturnBinding{Name: r.Name, Expr: convertExpr(r.Expr), Loc: loc(r.Pos)})
	}
	return out
}

func convertMigrationMapping(m *migrationMapping) ast.ItemMapping {
	lc := loc(m.Pos)
	switch {
	case m.Copy != "":
		return ast.ItemMapping{DestField: m.DestField, SourceField: m.Copy, Kind: ast.MapCopy, Loc: lc}
	case m.CastFrom != "":
		t := convertType(m.CastTo)
		return ast.ItemMapping{DestField: m.DestField, SourceField: m.CastFrom, Kind: ast.MapCast, CastTo: &t, Loc: lc}
	default:
		v := convertLiteral(m.Literal)
		return ast.ItemMapping{DestField: m.DestField, Kind: ast.MapLiteral, Literal: &v, Loc: lc}
	}
}

func convertFile(f *File) *ast.Schema {
	out := &ast.Schema{}
	for _, n := range f.Nodes {
		out.Nodes = append(out.Nodes, ast.NodeSchema{Name: n.Name, Fields: convertFields(n.Fields), Loc: loc(n.Pos)})
	}
	for _, e := range f.Edges {
		out.Edges = append(out.Edges, ast.EdgeSchema{
			Name: e.Name, From: e.From, To: e.To,
			Properties: convertFields(e.Properties), Loc: loc(e.Pos),
		})
	}
	for _, v := range f.Vectors {
		out.Vectors = append(out.Vectors, ast.VectorSchema{Name: v.Name, Fields: convertFields(v.Fields), Loc: loc(v.Pos)})
	}
	for _, m := range f.Migrations {
		from, _ := strconv.Atoi(m.FromVersion)
		to, _ := strconv.Atoi(m.ToVersion)
		mig := ast.Migration{ItemName: m.ItemName, FromVersion: from, ToVersion: to, Loc: loc(m.Pos)}
		for _, mm := range m.Mappings {
			mig.Mappings = append(mig.Mappings, convertMigrationMapping(mm))
		}
		out.Migrations = append(out.Migrations, mig)
	}
	return out
}

func convertQueries(f *File) []ast.Query {
	out := make([]ast.Query, 0, len(f.Queries))
	for _, q := range f.Queries {
		out = append(out, ast.Query{
			Name:       q.Name,
			Parameters: convertParams(q.Parameters),
			Statements: convertStatements(q.Statements),
			Returns:    convertReturns(q.Returns),
			MCP:        q.MCP,
			Loc:        loc(q.Pos),
		})
	}
	return out
}
