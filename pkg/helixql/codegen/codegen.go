package codegen

import (
	"fmt"
	"strings"

	"github.com/cuemby/helixdb/pkg/helixql/analyzer"
	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

// importPath is this module's path, used to build the generated file's
// import block; kept as a constant rather than derived from go.mod since
// the generator has no build-time access to it.
const importPath = "github.com/cuemby/helixdb"

// Files is the generator's output: filename -> Go source text, the shape
// a caller (cmd/helixdb's project-build step, or a test) writes to disk
// or compiles in-memory.
type Files map[string]string

// Generate runs the code generator over an analyzed project, emitting
// handlers_gen.go (one handler per query plus the Registry wiring),
// config_gen.go (the config() function), and migrations_gen.go (one
// Migration_<item>_<from>_<to> function per schema migration). Returns an
// error listing every query the generator could not compile rather than
// emitting partially-broken source, per spec.md §4.F's determinism
// contract: the same erroring AST must fail the same way every time.
func Generate(pkgName string, result *analyzer.Result, cfgLiteral string) (Files, error) {
	if result.HasErrors() {
		return nil, fmt.Errorf("codegen: refusing to generate from a project with analysis errors")
	}

	var errs []string
	handlers := generateHandlers(pkgName, result, &errs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("codegen: %s", strings.Join(errs, "; "))
	}

	files := Files{
		"handlers_gen.go":   handlers,
		"config_gen.go":     generateConfig(pkgName, cfgLiteral),
		"migrations_gen.go": generateMigrations(pkgName, result.Schema),
	}
	return files, nil
}

func generateConfig(pkgName, cfgLiteral string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by pkg/helixql/codegen. DO NOT EDIT.\n\npackage %s\n\n", pkgName)
	b.WriteString("import \"" + importPath + "/pkg/types\"\n\n")
	b.WriteString("// Config returns the resolved storage/index configuration this project\n")
	b.WriteString("// was compiled against (spec.md §4.F: \"config() returns the resolved\n")
	b.WriteString("// Config\").\n")
	fmt.Fprintf(&b, "func Config() types.Config {\n\treturn %s\n}\n", cfgLiteral)
	return b.String()
}

// generateHandlers emits one Handler_<Name> function per query plus a
// RegisterAll helper cmd/helixdb calls at startup to populate a
// gateway.Registry — the "handlers are registered by name via a
// compile-time collection" contract spec.md §6 describes.
func generateHandlers(pkgName string, result *analyzer.Result, errs *[]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by pkg/helixql/codegen. DO NOT EDIT.\n\npackage %s\n\n", pkgName)
	b.WriteString("import (\n")
	b.WriteString("\t\"context\"\n")
	b.WriteString("\t\"encoding/json\"\n\n")
	b.WriteString("\t\"" + importPath + "/pkg/gateway\"\n")
	b.WriteString("\t\"" + importPath + "/pkg/herrors\"\n")
	b.WriteString("\t\"" + importPath + "/pkg/protocol\"\n")
	b.WriteString("\t\"" + importPath + "/pkg/storage\"\n")
	b.WriteString("\t\"" + importPath + "/pkg/traversal\"\n")
	b.WriteString("\t\"" + importPath + "/pkg/types\"\n")
	b.WriteString("\t\"" + importPath + "/pkg/vector\"\n")
	b.WriteString(")\n\n")

	var registrations strings.Builder
	for _, qr := range result.Queries {
		fn, err := compileHandler(qr.Query, qr.IsWrite)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("query %s: %v", qr.Query.Name, err))
			continue
		}
		b.WriteString(fn)
		b.WriteString("\n")
		fmt.Fprintf(&registrations, "\treg.Register(&gateway.Handler{Name: %q, IsWrite: %t, MCP: %t, Fn: Handler_%s(engine, vec)})\n",
			qr.Query.Name, qr.IsWrite, qr.Query.MCP, qr.Query.Name)
	}

	b.WriteString("// RegisterAll wires every compiled query handler into reg, the wiring\n")
	b.WriteString("// cmd/helixdb performs once at startup against the opened storage\n")
	b.WriteString("// engine and vector index.\n")
	b.WriteString("func RegisterAll(reg *gateway.Registry, engine *storage.Engine, vec *vector.Index) {\n")
	b.WriteString(registrations.String())
	b.WriteString("}\n")

	return b.String()
}

// compileHandler renders one QUERY block as a gateway.HandlerFunc
// factory: decode the request body into a generated input struct, open a
// read or write transaction per the analyzer's IsWrite verdict, run the
// compiled statement sequence, and assemble the RETURN bindings into the
// JSON response body.
func compileHandler(q ast.Query, isWrite bool) (string, error) {
	c := newCompiler()

	var params strings.Builder
	params.WriteString("struct {\n")
	for _, p := range q.Parameters {
		fmt.Fprintf(&params, "\t\t\t%s %s `json:%q`\n", fieldName(p.Name), goType(p.Type), p.Name)
		c.env.set(p.Name, binding{goName: fmt.Sprintf("input.%s", fieldName(p.Name)), kind: bindScalar, goType: goType(p.Type)})
	}
	params.WriteString("\t\t}")

	var body strings.Builder
	for _, s := range q.Statements {
		c.compileStatement(&body, s, 3)
	}

	body.WriteString("\t\t\tout := map[string]any{}\n")
	for _, r := range q.Returns {
		c.compileReturn(&body, r, 3)
	}

	if c.err != nil {
		return "", c.err
	}

	openFn, txnType := "View", "storage.ReadTxn"
	newTraversal := "traversal.New(engine, rtx, vec, ar)"
	if isWrite {
		openFn, txnType = "Update", "storage.WriteTxn"
		newTraversal = "traversal.NewWrite(engine, rtx, vec, ar)"
	}

	var fn strings.Builder
	fmt.Fprintf(&fn, "// Handler_%s is the compiled handler for `QUERY %s`.\n", q.Name, q.Name)
	fmt.Fprintf(&fn, "func Handler_%s(engine *storage.Engine, vec *vector.Index) gateway.HandlerFunc {\n", q.Name)
	fn.WriteString("\treturn func(ctx context.Context, req protocol.Request) (protocol.Response, error) {\n")
	fmt.Fprintf(&fn, "\t\tvar input %s\n", params.String())
	fn.WriteString("\t\tif len(req.Body) > 0 {\n")
	fn.WriteString("\t\t\tif err := json.Unmarshal(req.Body, &input); err != nil {\n")
	fn.WriteString("\t\t\t\treturn protocol.Response{}, herrors.New(herrors.InvalidInput, \"decode request: \"+err.Error())\n")
	fn.WriteString("\t\t\t}\n\t\t}\n")
	fn.WriteString("\t\tvar result map[string]any\n")
	fmt.Fprintf(&fn, "\t\terr := engine.%s(func(rtx *%s) error {\n", openFn, txnType)
	fn.WriteString("\t\t\tar := traversal.NewArena()\n")
	fmt.Fprintf(&fn, "\t\t\ttb := func() *traversal.Traversal { return %s }\n", newTraversal)
	fn.WriteString(body.String())
	fn.WriteString("\t\t\tresult = out\n")
	fn.WriteString("\t\t\treturn nil\n")
	fn.WriteString("\t\t})\n")
	fn.WriteString("\t\tif err != nil {\n")
	fn.WriteString("\t\t\treturn protocol.Response{}, err\n")
	fn.WriteString("\t\t}\n")
	fn.WriteString("\t\tdata, err := json.Marshal(result)\n")
	fn.WriteString("\t\tif err != nil {\n")
	fn.WriteString("\t\t\treturn protocol.Response{}, err\n")
	fn.WriteString("\t\t}\n")
	fn.WriteString("\t\treturn protocol.Response{Body: data, Fmt: protocol.FormatJSON}, nil\n")
	fn.WriteString("\t}\n}\n")

	return fn.String(), nil
}

func fieldName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	if b.Len() == 0 {
		return "Field"
	}
	return b.String()
}
