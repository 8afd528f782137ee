package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/helixql/ast"
	"github.com/cuemby/helixdb/pkg/helixql/parser"
)

func mustParse(t *testing.T, src string) *parser.Result {
	t.Helper()
	res, err := parser.Parse("test.hx", src)
	require.NoError(t, err)
	return res
}

func TestAnalyzeSchemaRejectsReservedField(t *testing.T) {
	res := mustParse(t, `N::User { id: String }`)
	_, diags := AnalyzeSchema(res.Schema)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E104ReservedFieldName, diags.Errors()[0].Code)
}

func TestAnalyzeSchemaRejectsIdentifierFieldType(t *testing.T) {
	res := mustParse(t, `N::User { pet: Dog }`)
	_, diags := AnalyzeSchema(res.Schema)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E105UnknownFieldType, diags.Errors()[0].Code)
}

func TestAnalyzeSchemaRejectsDuplicateNode(t *testing.T) {
	res := mustParse(t, `N::User { name: String } N::User { age: I64 }`)
	_, diags := AnalyzeSchema(res.Schema)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E101DuplicateNode, diags.Errors()[0].Code)
}

func TestAnalyzeSchemaRejectsUnknownEdgeEndpoint(t *testing.T) {
	res := mustParse(t, `N::User { name: String }
		E::Follows { From: User, To: Ghost }`)
	_, diags := AnalyzeSchema(res.Schema)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E106UnknownEdgeEnd, diags.Errors()[0].Code)
}

func TestAnalyzeSchemaOK(t *testing.T) {
	res := mustParse(t, `N::User { INDEX name: String, age: I64 }
		E::Follows { From: User, To: User, Properties: { since: Date } }
		V::Embedding { source: String }`)
	sm, diags := AnalyzeSchema(res.Schema)
	require.False(t, diags.HasErrors())
	assert.Len(t, sm.Nodes, 1)
	assert.Len(t, sm.Edges, 1)
	assert.Len(t, sm.Vectors, 1)
}

func TestAnalyzeMigrationValidMapping(t *testing.T) {
	res := mustParse(t, `N::User { name: String, email: String }
		MIGRATION User FROM 1 TO 2 {
			name: COPY name,
			email: LITERAL ""
		}`)
	_, diags := AnalyzeSchema(res.Schema)
	assert.False(t, diags.HasErrors())
}

func TestAnalyzeMigrationUnknownTargetField(t *testing.T) {
	res := mustParse(t, `N::User { name: String }
		MIGRATION User FROM 1 TO 2 {
			nickname: COPY name
		}`)
	_, diags := AnalyzeSchema(res.Schema)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E209UnknownMigrationField, diags.Errors()[0].Code)
}

func TestAnalyzeMigrationBadVersionOrder(t *testing.T) {
	res := mustParse(t, `N::User { name: String }
		MIGRATION User FROM 2 TO 1 {
			name: COPY name
		}`)
	_, diags := AnalyzeSchema(res.Schema)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E208UnknownMigrationVersion, diags.Errors()[0].Code)
}

func TestAnalyzeMigrationUnassignableLiteral(t *testing.T) {
	res := mustParse(t, `N::User { name: String, age: I64 }
		MIGRATION User FROM 1 TO 2 {
			age: LITERAL "not a number"
		}`)
	_, diags := AnalyzeSchema(res.Schema)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E207UnassignableLiteral, diags.Errors()[0].Code)
}

func TestAnalyzeQuerySimpleTraversal(t *testing.T) {
	res := mustParse(t, `N::User { name: String } E::Follows { From: User, To: User }`)
	sm, diags := AnalyzeSchema(res.Schema)
	require.False(t, diags.HasErrors())

	q := mustParse(t, `QUERY GetFollowers(userID: UUID) =>
		user <- N<User>(userID)
		followers <- user.In(Follows)
		RETURN followers: followers`).Queries[0]

	qdiags, isWrite := AnalyzeQuery(q, sm)
	assert.False(t, qdiags.HasErrors())
	assert.False(t, isWrite)
}

func TestAnalyzeQueryDetectsWrite(t *testing.T) {
	q := mustParse(t, `QUERY MakeUser(name: String) =>
		u <- N.AddN(User, {name: name})
		RETURN user: u`).Queries[0]

	sm, _ := AnalyzeSchema(mustParse(t, `N::User { name: String }`).Schema)
	_, isWrite := AnalyzeQuery(q, sm)
	assert.True(t, isWrite)
}

func TestAnalyzeQueryUnknownIdentifier(t *testing.T) {
	q := mustParse(t, `QUERY Bad() =>
		RETURN x: nonexistent`).Queries[0]
	sm, _ := AnalyzeSchema(&ast.Schema{})
	diags, _ := AnalyzeQuery(q, sm)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E302UnknownIdent, diags.Errors()[0].Code)
}

func TestAnalyzeQueryShadowingRejected(t *testing.T) {
	q := mustParse(t, `QUERY Dup(x: String) =>
		x <- x
		RETURN y: x`).Queries[0]
	sm, _ := AnalyzeSchema(&ast.Schema{})
	diags, _ := AnalyzeQuery(q, sm)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E301Shadowing, diags.Errors()[0].Code)
}

func TestAnalyzeQueryDropMarksQueryAsWrite(t *testing.T) {
	q := mustParse(t, `QUERY Bad(userID: UUID) =>
		u <- N<User>(userID)
		DROP u
		RETURN ok: true`).Queries[0]
	sm, _ := AnalyzeSchema(mustParse(t, `N::User { name: String }`).Schema)
	diags, isWrite := AnalyzeQuery(q, sm)
	assert.True(t, isWrite)
	assert.False(t, diags.HasErrors())
}

func TestAnalyzeQueryForLoopDestructureMismatch(t *testing.T) {
	q := mustParse(t, `QUERY Bad(ids: [UUID]) =>
		FOR (a, b) IN ids {
			x <- a
		}
		RETURN ok: true`).Queries[0]
	sm, _ := AnalyzeSchema(&ast.Schema{})
	diags, _ := AnalyzeQuery(q, sm)
	require.True(t, diags.HasErrors())
	assert.Equal(t, E602DestructureArity, diags.Errors()[0].Code)
}
