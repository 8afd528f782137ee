package codegen

import (
	"fmt"
	"strings"

	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

// compiler holds the state needed to turn one QUERY block's body into Go
// source: the bound-identifier environment and a running counter for
// synthetic names (loop-collected slices, etc). One compiler is used per
// query; it is not reentrant across queries.
type compiler struct {
	env *env
	tmp int
	err error
}

func newCompiler() *compiler { return &compiler{env: newEnv()} }

func (c *compiler) nextTmp(prefix string) string {
	c.tmp++
	return fmt.Sprintf("%s%d", prefix, c.tmp)
}

func (c *compiler) fail(format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf(format, args...)
	}
}

// compileExpr renders e as a Go expression, returning the binding
// describing what kind of value it produces. For ExprTraversal this is
// the full chained builder expression (tb().NFromID(...).In(...)); it is
// never split across statements, since *traversal.Traversal's operators
// are themselves a fluent chain.
func (c *compiler) compileExpr(e ast.Expr) (string, binding) {
	switch e.Kind {
	case ast.ExprIdentifier, ast.ExprParameterAccess:
		if b, ok := c.env.get(e.Name); ok {
			return b.goName, b
		}
		c.fail("codegen: unresolved identifier %q (analyzer should have caught this)", e.Name)
		return "nil", binding{kind: bindScalar, goType: "any"}
	case ast.ExprLiteral:
		expr, gt := c.compileLiteral(e.Literal)
		return expr, binding{kind: bindScalar, goType: gt}
	case ast.ExprObjectLiteral:
		return c.compilePropertyMap(e.Fields), binding{kind: bindPropMap}
	case ast.ExprTraversal:
		return c.compileTraversal(e.Traversal), binding{kind: bindTraversal}
	default:
		c.fail("codegen: unsupported expression kind %v", e.Kind)
		return "nil", binding{kind: bindScalar, goType: "any"}
	}
}

func (c *compiler) compileLiteral(v ast.FieldValue) (string, string) {
	switch v.Kind {
	case ast.ValString:
		return fmt.Sprintf("%q", v.Str), "string"
	case ast.ValInt:
		return fmt.Sprintf("int64(%d)", v.Int), "int64"
	case ast.ValFloat:
		return fmt.Sprintf("float64(%v)", v.Float), "float64"
	case ast.ValBool:
		return fmt.Sprintf("%t", v.Bool), "bool"
	case ast.ValIdentifier:
		// Reserved for a future grammar extension; the parser doesn't
		// currently produce this variant (see convertLiteral).
		return goIdent(v.Ident), "any"
	case ast.ValArray:
		elems := make([]string, len(v.Array))
		for i, e := range v.Array {
			elems[i], _ = c.compileLiteral(e)
		}
		return fmt.Sprintf("[]any{%s}", strings.Join(elems, ", ")), "[]any"
	default:
		return "nil", "any"
	}
}

// valueExprOf wraps a compiled Go expression of the given binding into a
// types.Value constructor call, the shape a types.PropertyMap entry
// needs.
func valueExprOf(expr string, b binding) string {
	switch b.kind {
	case bindPropMap:
		return fmt.Sprintf("types.ObjectValue(%s)", expr)
	case bindScalar:
		switch b.goType {
		case "types.Value":
			return expr
		case "string":
			return fmt.Sprintf("types.StringValue(%s)", expr)
		case "int64":
			return fmt.Sprintf("types.I64Value(%s)", expr)
		case "uint64":
			return fmt.Sprintf("types.U64Value(%s)", expr)
		case "float64":
			return fmt.Sprintf("types.F64Value(%s)", expr)
		case "bool":
			return fmt.Sprintf("types.BoolValue(%s)", expr)
		case "types.ID":
			return fmt.Sprintf("types.UUIDValue(%s)", expr)
		default:
			return fmt.Sprintf("types.StringValue(fmt.Sprint(%s))", expr)
		}
	default:
		return fmt.Sprintf("types.StringValue(fmt.Sprint(%s))", expr)
	}
}

// compilePropertyMap renders an inline `{name: expr, ...}` object literal
// as an immediately-invoked function building a types.PropertyMap, the
// shape every AddN/InsertV/Update property argument needs.
func (c *compiler) compilePropertyMap(fields []ast.ObjectField) string {
	var b strings.Builder
	b.WriteString("func() types.PropertyMap {\n\t\tm := types.NewPropertyMap()\n")
	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		expr, bind := c.compileExpr(*f.Value)
		fmt.Fprintf(&b, "\t\tm.Set(%q, %s)\n", f.Name, valueExprOf(expr, bind))
	}
	b.WriteString("\t\treturn m\n\t}()")
	return b.String()
}

// idExpr compiles e, expecting a types.ID-typed result: an identifier
// already bound to types.ID (a UUID parameter, typically), or a literal
// string parsed at call time.
func (c *compiler) idExpr(e ast.Expr) string {
	switch e.Kind {
	case ast.ExprIdentifier, ast.ExprParameterAccess:
		if b, ok := c.env.get(e.Name); ok {
			return b.goName
		}
		return goIdent(e.Name)
	case ast.ExprLiteral:
		if e.Literal.Kind == ast.ValString {
			return fmt.Sprintf("func() types.ID { id, _ := types.ParseID(%q); return id }()", e.Literal.Str)
		}
	}
	expr, _ := c.compileExpr(e)
	return expr
}

// labelArg renders a step argument expected to be a bare schema label
// (`Follows`, `User`): HelixQL writes these as identifiers even though
// they aren't scope-bound variables (see analyzer/query.go's typeStep
// comment), so codegen reads the identifier name directly as a string
// literal rather than resolving it through the environment.
func labelArg(e ast.Expr) string {
	switch e.Kind {
	case ast.ExprIdentifier:
		return e.Name
	case ast.ExprLiteral:
		return e.Literal.Str
	default:
		return ""
	}
}

// floatArrayArg renders a step argument expected to be a []float64 (a
// vector's data or a SearchV query), from either an array literal of
// numbers or a bound []float64 identifier.
func (c *compiler) floatArrayArg(e ast.Expr) string {
	if e.Kind == ast.ExprLiteral && e.Literal.Kind == ast.ValArray {
		elems := make([]string, len(e.Literal.Array))
		for i, v := range e.Literal.Array {
			switch v.Kind {
			case ast.ValInt:
				elems[i] = fmt.Sprintf("float64(%d)", v.Int)
			default:
				elems[i] = fmt.Sprintf("float64(%v)", v.Float)
			}
		}
		return fmt.Sprintf("[]float64{%s}", strings.Join(elems, ", "))
	}
	expr, _ := c.compileExpr(e)
	return expr
}

func (c *compiler) intArg(e ast.Expr) string {
	if e.Kind == ast.ExprLiteral && e.Literal.Kind == ast.ValInt {
		return fmt.Sprintf("%d", e.Literal.Int)
	}
	expr, _ := c.compileExpr(e)
	return fmt.Sprintf("int(%s)", expr)
}

func (c *compiler) boolArg(e ast.Expr) string {
	if e.Kind == ast.ExprLiteral && e.Literal.Kind == ast.ValBool {
		return fmt.Sprintf("%t", e.Literal.Bool)
	}
	expr, _ := c.compileExpr(e)
	return expr
}

func (c *compiler) stringArg(e ast.Expr) string {
	if e.Kind == ast.ExprLiteral && e.Literal.Kind == ast.ValString {
		return fmt.Sprintf("%q", e.Literal.Str)
	}
	expr, _ := c.compileExpr(e)
	return expr
}

// compareFn renders a comparator identifier (`Eq`, `Neq`, `Gt`, `Gte`,
// `Lt`, `Lte`) as a Go closure matching Where's cmp signature. Eq/Neq
// compare by types.Value.Equal (works for any kind); ordering
// comparators fall through AsFloat64, matching the numeric-only ordering
// contract spec.md §4.E's Filter family describes.
func compareFn(op string) string {
	switch op {
	case "Eq":
		return "func(a, w types.Value) bool { return a.Equal(w) }"
	case "Neq":
		return "func(a, w types.Value) bool { return !a.Equal(w) }"
	case "Gt":
		return "func(a, w types.Value) bool { af, ok1 := a.AsFloat64(); wf, ok2 := w.AsFloat64(); return ok1 && ok2 && af > wf }"
	case "Gte":
		return "func(a, w types.Value) bool { af, ok1 := a.AsFloat64(); wf, ok2 := w.AsFloat64(); return ok1 && ok2 && af >= wf }"
	case "Lt":
		return "func(a, w types.Value) bool { af, ok1 := a.AsFloat64(); wf, ok2 := w.AsFloat64(); return ok1 && ok2 && af < wf }"
	case "Lte":
		return "func(a, w types.Value) bool { af, ok1 := a.AsFloat64(); wf, ok2 := w.AsFloat64(); return ok1 && ok2 && af <= wf }"
	default:
		return "func(a, w types.Value) bool { return a.Equal(w) }"
	}
}

var metricIdents = map[string]string{
	"Cosine": "types.MetricCosine", "Euclidean": "types.MetricEuclidean", "DotProduct": "types.MetricDotProduct",
}

var pathAlgoIdents = map[string]string{
	"BFS": "traversal.AlgoBFS", "Dijkstra": "traversal.AlgoDijkstra",
}

// compileTraversal renders a full source-plus-steps traversal expression
// as one chained Go expression.
func (c *compiler) compileTraversal(tr *ast.Traversal) string {
	if tr == nil {
		return "tb()"
	}

	var base string
	switch tr.SourceKind {
	case ast.SourceNFromID:
		base = fmt.Sprintf("tb().NFromID(%s)", c.idExpr(tr.SourceArgs[0]))
	case ast.SourceNFromType:
		base = fmt.Sprintf("tb().NFromType(%q)", tr.SourceLabel)
	case ast.SourceEFromID:
		base = fmt.Sprintf("tb().EFromID(%s)", c.idExpr(tr.SourceArgs[0]))
	case ast.SourceEFromType:
		base = fmt.Sprintf("tb().EFromType(%q)", tr.SourceLabel)
	case ast.SourceVFromID:
		base = fmt.Sprintf("tb().VFromID(%s)", c.idExpr(tr.SourceArgs[0]))
	case ast.SourceVFromType:
		base = fmt.Sprintf("tb().VFromType(%q)", tr.SourceLabel)
	case ast.SourceIdentifier:
		name := tr.SourceArgs[0].Name
		if b, ok := c.env.get(name); ok {
			if b.kind == bindElement {
				base = fmt.Sprintf("tb().From(%s)", b.goName)
			} else {
				base = b.goName
			}
		} else {
			base = goIdent(name)
		}
	default:
		base = "tb()"
	}

	for _, step := range tr.Steps {
		base = c.compileStep(base, step)
	}
	return base
}

// compileStep renders one chained `.StepName(args)` call against base,
// translating HelixQL's untyped step-argument convention into the
// concrete Go operator signature pkg/traversal declares. The argument
// order/shape for the mutation and search steps (AddN/AddEdge/InsertV/
// SearchV/SearchBM25/...) is a codegen convention, not something the
// grammar enforces: HelixQL's stepCall production accepts any expr list
// (see parser/grammar.go), so this mapping is the one place that
// convention is fixed, chosen to mirror the Go operator's own parameter
// order 1:1.
func (c *compiler) compileStep(base string, step ast.Step) string {
	args := step.Args
	switch step.Name {
	case "Out", "In", "OutE", "InE":
		label := ""
		if len(args) > 0 {
			label = labelArg(args[0])
		}
		return fmt.Sprintf("%s.%s(%q)", base, step.Name, label)
	case "FromN", "ToN", "FromV", "ToV", "Count", "Dedup":
		return fmt.Sprintf("%s.%s()", base, step.Name)
	case "Drop":
		return fmt.Sprintf("%s.Drop()", base)
	case "Range":
		if len(args) < 2 {
			c.fail("codegen: Range requires 2 arguments")
			return base
		}
		return fmt.Sprintf("%s.Range(%s, %s)", base, c.intArg(args[0]), c.intArg(args[1]))
	case "AddN":
		if len(args) < 1 {
			c.fail("codegen: AddN requires a label argument")
			return base
		}
		label := labelArg(args[0])
		props := "types.NewPropertyMap()"
		if len(args) > 1 {
			props = c.objectArg(args[1])
		}
		return fmt.Sprintf("%s.AddN(%q, %s)", base, label, props)
	case "AddEdge":
		if len(args) < 5 {
			c.fail("codegen: AddEdge requires (label, props, unique, from, to) arguments")
			return base
		}
		label := labelArg(args[0])
		props := c.objectArg(args[1])
		unique := c.boolArg(args[2])
		from := c.idListArg(args[3])
		to := c.idListArg(args[4])
		return fmt.Sprintf("%s.AddEdge(%q, %s, %s, %s, %s)", base, label, props, unique, from, to)
	case "InsertV":
		if len(args) < 2 {
			c.fail("codegen: InsertV requires (label, data, [props]) arguments")
			return base
		}
		label := labelArg(args[0])
		data := c.floatArrayArg(args[1])
		props := "types.NewPropertyMap()"
		if len(args) > 2 {
			props = c.objectArg(args[2])
		}
		return fmt.Sprintf("%s.InsertV(%q, %s, %s)", base, label, data, props)
	case "Update":
		if len(args) < 1 {
			c.fail("codegen: Update requires a props argument")
			return base
		}
		return fmt.Sprintf("%s.Update(%s)", base, c.objectArg(args[0]))
	case "SearchV":
		if len(args) < 2 {
			c.fail("codegen: SearchV requires (query, k) arguments")
			return base
		}
		return fmt.Sprintf("%s.SearchV(%s, %s, nil)", base, c.floatArrayArg(args[0]), c.intArg(args[1]))
	case "BruteForceSearchV":
		if len(args) < 3 {
			c.fail("codegen: BruteForceSearchV requires (query, k, label) arguments")
			return base
		}
		return fmt.Sprintf("%s.BruteForceSearchV(%s, %s, %q)", base, c.floatArrayArg(args[0]), c.intArg(args[1]), labelArg(args[2]))
	case "SearchBM25":
		if len(args) < 3 {
			c.fail("codegen: SearchBM25 requires (label, query, k) arguments")
			return base
		}
		return fmt.Sprintf("%s.SearchBM25(%q, %s, %s)", base, labelArg(args[0]), c.stringArg(args[1]), c.intArg(args[2]))
	case "Where":
		if len(args) < 3 {
			c.fail("codegen: Where requires (property, comparator, value) arguments")
			return base
		}
		prop := labelArg(args[0])
		cmp := compareFn(labelArg(args[1]))
		want := c.valueArg(args[2])
		return fmt.Sprintf("%s.Where(%q, %s, %s)", base, prop, cmp, want)
	case "OrderByAsc", "OrderByDesc":
		if len(args) < 1 {
			c.fail("codegen: %s requires a property argument", step.Name)
			return base
		}
		prop := labelArg(args[0])
		key := fmt.Sprintf("func(v traversal.TraversalValue) types.Value { val, _ := v.GetProperty(%q); return val }", prop)
		return fmt.Sprintf("%s.%s(%s)", base, step.Name, key)
	case "GroupBy":
		props := make([]string, len(args))
		for i, a := range args {
			props[i] = fmt.Sprintf("%q", labelArg(a))
		}
		return fmt.Sprintf("%s.GroupBy([]string{%s})", base, strings.Join(props, ", "))
	case "AggregateBy":
		countOnly := "false"
		propArgs := args
		if n := len(args); n > 0 && args[n-1].Kind == ast.ExprLiteral && args[n-1].Literal.Kind == ast.ValBool {
			countOnly = c.boolArg(args[n-1])
			propArgs = args[:n-1]
		}
		props := make([]string, len(propArgs))
		for i, a := range propArgs {
			props[i] = fmt.Sprintf("%q", labelArg(a))
		}
		return fmt.Sprintf("%s.AggregateBy([]string{%s}, %s)", base, strings.Join(props, ", "), countOnly)
	case "RRF":
		if len(args) < 1 {
			c.fail("codegen: RRF requires a k argument")
			return base
		}
		return fmt.Sprintf("%s.RRF(%s)", base, c.intArg(args[0]))
	case "MMR":
		if len(args) < 2 {
			c.fail("codegen: MMR requires (lambda, metric, [query]) arguments")
			return base
		}
		lambda := c.floatScalarArg(args[0])
		metric := metricIdents[labelArg(args[1])]
		if metric == "" {
			metric = "types.MetricCosine"
		}
		query := "nil"
		if len(args) > 2 {
			query = c.floatArrayArg(args[2])
		}
		return fmt.Sprintf("%s.MMR(%s, %s, %s)", base, lambda, metric, query)
	case "ShortestPath":
		if len(args) < 3 {
			c.fail("codegen: ShortestPath requires (algo, label, from, to) arguments")
			return base
		}
		algo := pathAlgoIdents[labelArg(args[0])]
		if algo == "" {
			algo = "traversal.AlgoBFS"
		}
		label := labelArg(args[1])
		from := c.idExpr(args[2])
		to := "types.ID{}"
		if len(args) > 3 {
			to = c.idExpr(args[3])
		}
		return fmt.Sprintf("%s.ShortestPath(%s, %q, %s, %s, nil)", base, algo, label, from, to)
	default:
		c.fail("codegen: unsupported traversal step %q (no closure-accepting step can be compiled from HelixQL source, which has no lambda syntax)", step.Name)
		return base
	}
}

func (c *compiler) objectArg(e ast.Expr) string {
	if e.Kind == ast.ExprObjectLiteral {
		return c.compilePropertyMap(e.Fields)
	}
	expr, _ := c.compileExpr(e)
	return expr
}

func (c *compiler) valueArg(e ast.Expr) string {
	expr, b := c.compileExpr(e)
	return valueExprOf(expr, b)
}

func (c *compiler) floatScalarArg(e ast.Expr) string {
	if e.Kind == ast.ExprLiteral {
		switch e.Literal.Kind {
		case ast.ValFloat:
			return fmt.Sprintf("%v", e.Literal.Float)
		case ast.ValInt:
			return fmt.Sprintf("float64(%d)", e.Literal.Int)
		}
	}
	expr, _ := c.compileExpr(e)
	return fmt.Sprintf("float64(%s)", expr)
}

// idListArg renders a step argument expected to be a []types.ID, from
// either an array literal of ids or a single identifier (wrapped into a
// one-element slice), matching add_edge's plural-endpoint Cartesian
// product (spec.md §4.F's mutation row).
func (c *compiler) idListArg(e ast.Expr) string {
	if e.Kind == ast.ExprLiteral && e.Literal.Kind == ast.ValArray {
		elems := make([]string, len(e.Literal.Array))
		for i, v := range e.Literal.Array {
			elems[i] = fmt.Sprintf("func() types.ID { id, _ := types.ParseID(%q); return id }()", v.Str)
		}
		return fmt.Sprintf("[]types.ID{%s}", strings.Join(elems, ", "))
	}
	return fmt.Sprintf("[]types.ID{%s}", c.idExpr(e))
}
