package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

func TestParseNodeSchema(t *testing.T) {
	src := `N::User {
		INDEX name: String,
		age: I64,
		tags: [String]
	}`
	res, err := Parse("schema.hx", src)
	require.NoError(t, err)
	require.Len(t, res.Schema.Nodes, 1)

	n := res.Schema.Nodes[0]
	assert.Equal(t, "User", n.Name)
	require.Len(t, n.Fields, 3)
	assert.Equal(t, "name", n.Fields[0].Name)
	assert.True(t, n.Fields[0].Indexed)
	assert.Equal(t, ast.FieldString, n.Fields[0].Type.Kind)
	assert.Equal(t, ast.FieldI64, n.Fields[1].Type.Kind)
	assert.Equal(t, ast.FieldArray, n.Fields[2].Type.Kind)
	assert.Equal(t, ast.FieldString, n.Fields[2].Type.Of.Kind)
}

func TestParseEdgeSchema(t *testing.T) {
	src := `E::Follows {
		From: User,
		To: User,
		Properties: {
			since: Date
		}
	}`
	res, err := Parse("schema.hx", src)
	require.NoError(t, err)
	require.Len(t, res.Schema.Edges, 1)

	e := res.Schema.Edges[0]
	assert.Equal(t, "Follows", e.Name)
	assert.Equal(t, "User", e.From)
	assert.Equal(t, "User", e.To)
	require.Len(t, e.Properties, 1)
	assert.Equal(t, "since", e.Properties[0].Name)
}

func TestParseVectorSchema(t *testing.T) {
	src := `V::Embedding {
		source: String
	}`
	res, err := Parse("schema.hx", src)
	require.NoError(t, err)
	require.Len(t, res.Schema.Vectors, 1)
	assert.Equal(t, "Embedding", res.Schema.Vectors[0].Name)
}

func TestParseQueryWithTraversalAndReturn(t *testing.T) {
	src := `QUERY GetFollowers(userID: UUID) =>
		user <- N<User>(userID)
		followers <- user.In(Follows)
		RETURN followers: followers`

	res, err := Parse("query.hx", src)
	require.NoError(t, err)
	require.Len(t, res.Queries, 1)

	q := res.Queries[0]
	assert.Equal(t, "GetFollowers", q.Name)
	require.Len(t, q.Parameters, 1)
	assert.Equal(t, "userID", q.Parameters[0].Name)
	assert.Equal(t, ast.FieldUUID, q.Parameters[0].Type.Kind)

	require.Len(t, q.Statements, 2)
	assert.Equal(t, ast.StmtAssignment, q.Statements[0].Kind)
	assert.Equal(t, "user", q.Statements[0].AssignName)
	require.NotNil(t, q.Statements[0].AssignExpr.Traversal)
	assert.Equal(t, ast.SourceNFromID, q.Statements[0].AssignExpr.Traversal.SourceKind)

	assert.Equal(t, "followers", q.Statements[1].AssignName)
	require.Len(t, q.Statements[1].AssignExpr.Traversal.Steps, 1)
	assert.Equal(t, "In", q.Statements[1].AssignExpr.Traversal.Steps[0].Name)

	require.Len(t, q.Returns, 1)
	assert.Equal(t, "followers", q.Returns[0].Name)
}

func TestParseQueryWithForLoopAndDrop(t *testing.T) {
	src := `QUERY PurgeStale(ids: [UUID]) =>
		FOR id IN ids {
			n <- N(id)
			DROP n
		}
		RETURN ok: true`

	res, err := Parse("query.hx", src)
	require.NoError(t, err)
	require.Len(t, res.Queries, 1)

	q := res.Queries[0]
	require.Len(t, q.Statements, 1)
	forStmt := q.Statements[0]
	assert.Equal(t, ast.StmtForLoop, forStmt.Kind)
	assert.Equal(t, []string{"id"}, forStmt.ForVarNames)
	require.Len(t, forStmt.ForBody, 2)
	assert.Equal(t, ast.StmtDrop, forStmt.ForBody[1].Kind)
}

func TestParseMCPQuery(t *testing.T) {
	src := `MCP QUERY SearchDocs(query: String) =>
		RETURN hits: query`

	res, err := Parse("query.hx", src)
	require.NoError(t, err)
	require.Len(t, res.Queries, 1)
	assert.True(t, res.Queries[0].MCP)
}

func TestParseInvalidSourceReturnsError(t *testing.T) {
	_, err := Parse("bad.hx", `N::Missing { `)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
