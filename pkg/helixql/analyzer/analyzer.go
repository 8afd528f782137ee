package analyzer

import "github.com/cuemby/helixdb/pkg/helixql/ast"

// QueryResult pairs one analyzed query with its diagnostics and the
// write-transaction requirement the query pass inferred, the shape
// codegen consumes directly (spec.md §4.F: "mutation operators require
// write context").
type QueryResult struct {
	Query   ast.Query
	Diags   Diagnostics
	IsWrite bool
}

// Result is the full output of analyzing one HelixQL project (a merged
// parser.Result): the schema pass's SchemaVersionMap plus one QueryResult
// per QUERY block, in source order.
type Result struct {
	Schema       *SchemaVersionMap
	SchemaDiags  Diagnostics
	Queries      []QueryResult
}

// HasErrors reports whether the schema pass or any query pass produced an
// error-severity diagnostic — the signal codegen uses to abort
// generation (spec.md §4.F: "Warnings do not abort generation; errors
// do.").
func (r *Result) HasErrors() bool {
	if r.SchemaDiags.HasErrors() {
		return true
	}
	for _, q := range r.Queries {
		if q.Diags.HasErrors() {
			return true
		}
	}
	return false
}

// Analyze runs the full two-phase analysis over a schema and its
// queries: the schema pass once, then one query pass per QUERY block
// (each gets its own fresh scope, but shares the resolved schema map).
func Analyze(schema *ast.Schema, queries []ast.Query) *Result {
	sm, schemaDiags := AnalyzeSchema(schema)
	r := &Result{Schema: sm, SchemaDiags: schemaDiags}
	for _, q := range queries {
		diags, isWrite := AnalyzeQuery(q, sm)
		r.Queries = append(r.Queries, QueryResult{Query: q, Diags: diags, IsWrite: isWrite})
	}
	return r
}
