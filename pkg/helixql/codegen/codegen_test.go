package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/helixql/analyzer"
	"github.com/cuemby/helixdb/pkg/helixql/parser"
)

func mustAnalyze(t *testing.T, src string) *analyzer.Result {
	t.Helper()
	res, err := parser.Parse("test.hx", src)
	require.NoError(t, err)
	return analyzer.Analyze(res.Schema, res.Queries)
}

func TestGenerateSimpleTraversalHandler(t *testing.T) {
	r := mustAnalyze(t, `N::User { name: String }
		E::Follows { From: User, To: User }
		QUERY GetFollowers(userID: UUID) =>
			user <- N<User>(userID)
			followers <- user.In(Follows)
			RETURN followers: followers`)
	require.False(t, r.HasErrors())

	files, err := Generate("compiled", r, "types.Config{}")
	require.NoError(t, err)

	handlers := files["handlers_gen.go"]
	assert.Contains(t, handlers, "func Handler_GetFollowers(engine *storage.Engine, vec *vector.Index) gateway.HandlerFunc")
	assert.Contains(t, handlers, `UserID types.ID `+"`json:\"userID\"`")
	assert.Contains(t, handlers, "tb().NFromID(input.UserID)")
	assert.Contains(t, handlers, `user.In("Follows")`)
	assert.Contains(t, handlers, "traversal.CollectToVec((followers).Seq)")
	assert.Contains(t, handlers, `out["followers"] = traversal.ValuesToJSON(`)
	assert.Contains(t, handlers, "engine.View(func(rtx *storage.ReadTxn) error {")
	assert.Contains(t, handlers, "reg.Register(&gateway.Handler{Name: \"GetFollowers\", IsWrite: false")
}

func TestGenerateIsDeterministic(t *testing.T) {
	src := `N::User { name: String }
		QUERY MakeUser(name: String) =>
			u <- N.AddN(User, {name: name})
			RETURN user: u`
	r1 := mustAnalyze(t, src)
	r2 := mustAnalyze(t, src)

	f1, err := Generate("compiled", r1, "types.Config{}")
	require.NoError(t, err)
	f2, err := Generate("compiled", r2, "types.Config{}")
	require.NoError(t, err)

	assert.Equal(t, f1["handlers_gen.go"], f2["handlers_gen.go"])
}

func TestGenerateWriteQueryOpensUpdateAndDrains(t *testing.T) {
	r := mustAnalyze(t, `N::User { name: String }
		QUERY MakeUser(name: String) =>
			u <- N.AddN(User, {name: name})
			RETURN user: u`)
	require.False(t, r.HasErrors())

	files, err := Generate("compiled", r, "types.Config{}")
	require.NoError(t, err)
	handlers := files["handlers_gen.go"]

	assert.Contains(t, handlers, "engine.Update(func(rtx *storage.WriteTxn) error {")
	assert.Contains(t, handlers, `u := tb().NFromType("").AddN("User", func() types.PropertyMap {`)
	assert.Contains(t, handlers, `m.Set("name", types.StringValue(input.Name))`)
	assert.Contains(t, handlers, "traversal.CollectToVec((u).Seq)")
	assert.Contains(t, handlers, "reg.Register(&gateway.Handler{Name: \"MakeUser\", IsWrite: true")
}

func TestGenerateForLoopOverParamArray(t *testing.T) {
	r := mustAnalyze(t, `N::User { name: String }
		QUERY DeleteUsers(ids: [UUID]) =>
			FOR (id) IN ids {
				n <- N<User>(id)
				DROP n
			}
			RETURN ok: true`)
	require.False(t, r.HasErrors())

	files, err := Generate("compiled", r, "types.Config{}")
	require.NoError(t, err)
	handlers := files["handlers_gen.go"]

	assert.Contains(t, handlers, "for _, id := range input.Ids {")
	assert.Contains(t, handlers, "tb().NFromID(id)")
	assert.Contains(t, handlers, "n.Drop()")
	assert.Contains(t, handlers, `out["ok"] = true`)
}

func TestGenerateMigrationFunctions(t *testing.T) {
	r := mustAnalyze(t, `N::User { name: String, email: String }
		MIGRATION User FROM 1 TO 2 {
			name: COPY name,
			email: LITERAL ""
		}`)
	require.False(t, r.HasErrors())

	files, err := Generate("compiled", r, "types.Config{}")
	require.NoError(t, err)
	migrations := files["migrations_gen.go"]

	assert.Contains(t, migrations, "func Migration_User_1_2(in types.PropertyMap) types.PropertyMap {")
	assert.Contains(t, migrations, `if v, ok := in.Get("name"); ok {`)
	assert.Contains(t, migrations, `out.Set("email", types.StringValue(""))`)
}

func TestGenerateConfigFunction(t *testing.T) {
	r := mustAnalyze(t, `N::User { name: String }`)
	require.False(t, r.HasErrors())

	files, err := Generate("compiled", r, "types.DefaultVectorConfig(128, types.MetricCosine)")
	require.NoError(t, err)
	cfg := files["config_gen.go"]
	assert.True(t, strings.Contains(cfg, "func Config() types.Config {"))
	assert.Contains(t, cfg, "types.DefaultVectorConfig(128, types.MetricCosine)")
}

func TestGenerateRefusesOnAnalysisErrors(t *testing.T) {
	res, err := parser.Parse("test.hx", `QUERY Bad() => RETURN x: nonexistent`)
	require.NoError(t, err)
	r := analyzer.Analyze(res.Schema, res.Queries)
	require.True(t, r.HasErrors())

	_, err = Generate("compiled", r, "types.Config{}")
	assert.Error(t, err)
}
