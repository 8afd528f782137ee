package codegen

import (
	"fmt"
	"strings"

	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

func writeLine(b *strings.Builder, indent int, format string, args ...any) {
	b.WriteString(strings.Repeat("\t", indent))
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}

// mutationSteps mirrors analyzer.mutationSteps: the step names whose
// presence anywhere in a traversal means executing it must be forced
// (traversal pipelines are lazy; a mutation that's never drained never
// runs).
var mutationSteps = map[string]bool{
	"AddN": true, "AddEdge": true, "InsertV": true, "Update": true, "Drop": true,
}

func exprHasMutation(e ast.Expr) bool {
	if e.Kind != ast.ExprTraversal || e.Traversal == nil {
		return false
	}
	for _, st := range e.Traversal.Steps {
		if mutationSteps[st.Name] {
			return true
		}
	}
	return false
}

// writeDrain forces chainExpr's pipeline to execute by collecting it,
// returning early on the first error. Every statement built from a
// traversal whose result is never otherwise consumed (a bare mutation
// expression, a DROP, a for-loop source) needs this: pkg/traversal's
// operators only run once something pulls from the iter.Seq they build.
//
// This, and every other early return compiled into a statement or RETURN
// binding, fires from inside the engine.View/Update closure
// (func(rtx *storage.ReadTxn/WriteTxn) error) compileHandler builds, so it
// must return a bare error, not a protocol.Response pair — the
// HandlerFunc-shaped (protocol.Response, error) return only happens once
// at the outer err := engine.View(...)/Update(...) call site.
func (c *compiler) writeDrain(b *strings.Builder, indent int, chainExpr string) {
	errVar := c.nextTmp("err")
	writeLine(b, indent, "if _, %s := traversal.CollectToVec((%s).Seq); %s != nil {", errVar, chainExpr, errVar)
	writeLine(b, indent+1, "return %s", errVar)
	writeLine(b, indent, "}")
}

// compileStatement renders one statement from a QUERY body, updating the
// environment with any newly bound identifier.
func (c *compiler) compileStatement(b *strings.Builder, s ast.Statement, indent int) {
	switch s.Kind {
	case ast.StmtAssignment:
		expr, bind := c.compileExpr(s.AssignExpr)
		varName := goIdent(s.AssignName)
		writeLine(b, indent, "%s := %s", varName, expr)
		c.env.set(s.AssignName, binding{goName: varName, kind: bind.kind, goType: bind.goType})
		if bind.kind == bindTraversal && exprHasMutation(s.AssignExpr) {
			c.writeDrain(b, indent, varName)
		}
	case ast.StmtForLoop:
		c.compileForLoop(b, s, indent)
	case ast.StmtDrop:
		target, _ := c.compileExpr(s.DropExpr)
		c.writeDrain(b, indent, fmt.Sprintf("%s.Drop()", target))
	case ast.StmtExpr:
		expr, bind := c.compileExpr(s.Expr)
		if bind.kind == bindTraversal {
			c.writeDrain(b, indent, expr)
		}
	default:
		c.fail("codegen: unsupported statement kind %v", s.Kind)
	}
}

// compileForLoop renders a FOR statement. The source is either a native
// Go slice (a parameter or scalar-array binding — ranged directly, no
// traversal involved) or a plural traversal result (materialized via
// CollectToVec, since range-over-func can't be driven element-by-element
// across a loop body that itself builds further traversals without
// holding the upstream transaction open awkwardly across iterations).
func (c *compiler) compileForLoop(b *strings.Builder, s ast.Statement, indent int) {
	srcExpr, srcBind := c.compileExpr(s.ForSource)

	if srcBind.kind == bindScalar && strings.HasPrefix(srcBind.goType, "[]") {
		elemType := strings.TrimPrefix(srcBind.goType, "[]")
		loopVar := goIdent(s.ForVarNames[0])
		writeLine(b, indent, "for _, %s := range %s {", loopVar, srcExpr)
		snap := c.env.snapshot()
		if len(s.ForVarNames) > 1 {
			for _, name := range s.ForVarNames {
				writeLine(b, indent+1, "%s := %s[%q]", goIdent(name), loopVar, name)
				c.env.set(name, binding{goName: goIdent(name), kind: bindScalar, goType: "any"})
			}
		} else {
			c.env.set(s.ForVarNames[0], binding{goName: loopVar, kind: bindScalar, goType: elemType})
		}
		for _, inner := range s.ForBody {
			c.compileStatement(b, inner, indent+1)
		}
		writeLine(b, indent, "}")
		c.env.restore(snap)
		return
	}

	itemsVar := c.nextTmp("items")
	errVar := c.nextTmp("err")
	writeLine(b, indent, "%s, %s := traversal.CollectToVec((%s).Seq)", itemsVar, errVar, srcExpr)
	writeLine(b, indent, "if %s != nil {", errVar)
	writeLine(b, indent+1, "return %s", errVar)
	writeLine(b, indent, "}")

	loopVar := goIdent(s.ForVarNames[0])
	writeLine(b, indent, "for _, %s := range %s {", loopVar, itemsVar)
	snap := c.env.snapshot()
	c.env.set(s.ForVarNames[0], binding{goName: loopVar, kind: bindElement})
	for _, name := range s.ForVarNames[1:] {
		writeLine(b, indent+1, "%s, _ := %s.GetProperty(%q)", goIdent(name), loopVar, name)
		c.env.set(name, binding{goName: goIdent(name), kind: bindScalar, goType: "types.Value"})
	}
	for _, inner := range s.ForBody {
		c.compileStatement(b, inner, indent+1)
	}
	writeLine(b, indent, "}")
	c.env.restore(snap)
}

// compileReturn renders one RETURN binding into the handler's `out` map.
// A traversal-kind binding is always serialized as a JSON array (via
// ValuesToJSON), even for a source known to be singular at the source —
// codegen doesn't carry the analyzer's Type lattice forward (only the
// coarser bindKind), so it can't distinguish "exactly one node" from "a
// plural result of size one" the way RETURN ideally would; analyzer.Type
// is not threaded through the compiler for this single call site.
func (c *compiler) compileReturn(b *strings.Builder, r ast.ReturnBinding, indent int) {
	expr, bind := c.compileExpr(r.Expr)
	switch bind.kind {
	case bindTraversal:
		tmp := c.nextTmp("vs")
		errVar := c.nextTmp("err")
		writeLine(b, indent, "%s, %s := traversal.CollectToVec((%s).Seq)", tmp, errVar, expr)
		writeLine(b, indent, "if %s != nil {", errVar)
		writeLine(b, indent+1, "return %s", errVar)
		writeLine(b, indent, "}")
		writeLine(b, indent, "out[%q] = traversal.ValuesToJSON(%s)", r.Name, tmp)
	case bindElement, bindPropMap:
		writeLine(b, indent, "out[%q] = (%s).ToJSON()", r.Name, expr)
	default:
		if bind.goType == "types.Value" {
			writeLine(b, indent, "out[%q] = (%s).ToJSON()", r.Name, expr)
		} else {
			writeLine(b, indent, "out[%q] = %s", r.Name, expr)
		}
	}
}
