package analyzer

import (
	"github.com/cuemby/helixdb/pkg/helixql/ast"
)

// TypeKind tags the variant held by Type: node/edge/vector singulars and
// plurals, scalar, object, array, aggregate, boolean, and anonymous,
// matching the type lattice spec.md §4.F's query pass describes.
type TypeKind uint8

const (
	TypeAnonymous TypeKind = iota
	TypeScalar
	TypeBoolean
	TypeNode
	TypeNodePlural
	TypeEdge
	TypeEdgePlural
	TypeVector
	TypeVectorPlural
	TypeObject
	TypeArray
	TypeAggregate
)

// Type is the query pass's static type for one expression: a tagged
// union selected by Kind, mirroring TraversalValue's own Node/Edge/
// Vector/Value/Count/Path/Empty split one layer up in the type system.
type Type struct {
	Kind   TypeKind
	Label  string          // node/edge/vector declared type name
	Scalar ast.FieldTypeKind // meaningful when Kind == TypeScalar
	Elem   *Type           // meaningful when Kind == TypeArray
	Fields map[string]Type // meaningful when Kind == TypeObject
}

func singular(kind TypeKind, label string) Type { return Type{Kind: kind, Label: label} }
func plural(kind TypeKind, label string) Type    { return Type{Kind: kind, Label: label} }

func (t Type) isGraphElement() bool {
	switch t.Kind {
	case TypeNode, TypeNodePlural, TypeEdge, TypeEdgePlural, TypeVector, TypeVectorPlural:
		return true
	default:
		return false
	}
}

func (t Type) isPlural() bool {
	switch t.Kind {
	case TypeNodePlural, TypeEdgePlural, TypeVectorPlural, TypeArray:
		return true
	default:
		return false
	}
}

// scope is a stack of identifier->Type maps, innermost last, matching
// spec.md §4.F's "stack-of-maps from identifier to Type" with shadowing
// disallowed across the whole stack (not just the current frame).
type scope struct {
	frames []map[string]Type
}

func newScope() *scope {
	return &scope{frames: []map[string]Type{{}}}
}

func (s *scope) push() { s.frames = append(s.frames, map[string]Type{}) }

func (s *scope) pop() { s.frames = s.frames[:len(s.frames)-1] }

// declare binds name in the current (innermost) frame, reporting E301 if
// it's already bound anywhere in the stack — HelixQL disallows shadowing.
func (s *scope) declare(name string, t Type, loc ast.Loc, diags *Diagnostics) {
	if _, ok := s.lookup(name); ok {
		*diags = append(*diags, errf(E301Shadowing, loc, "identifier %q shadows an existing binding", name))
		return
	}
	s.frames[len(s.frames)-1][name] = t
}

func (s *scope) lookup(name string) (Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, ok := s.frames[i][name]; ok {
			return t, true
		}
	}
	return Type{}, false
}

// qctx threads the per-query analysis state through expression/statement
// typing: the schema map, the accumulated diagnostics, whether the
// current statement executes inside a write-opened traversal (mutation
// operators require this), and the scope stack.
type qctx struct {
	sm       *SchemaVersionMap
	diags    Diagnostics
	scope    *scope
	isWrite  bool // the query overall opens a write transaction
}

// mutationSteps are the step names that require a write-opened
// traversal, per spec.md §4.E's Mutation family (add_n, add_edge,
// insert_v, update, drop are expressed as traversal steps/statements in
// HelixQL source; DROP is its own statement kind, handled separately).
var mutationSteps = map[string]bool{
	"AddN": true, "AddEdge": true, "InsertV": true, "Update": true, "Drop": true,
}

// AnalyzeQuery runs the query pass over one parsed QUERY block: types
// every expression, enforces shadowing/scope/write-context rules, and
// returns the accumulated diagnostics. The returned bool reports whether
// the query requires a write transaction (used by codegen to pick the
// IsWrite routing flag spec.md §4.H's dispatcher consults).
func AnalyzeQuery(q ast.Query, sm *SchemaVersionMap) (Diagnostics, bool) {
	c := &qctx{sm: sm, scope: newScope()}

	for _, p := range q.Parameters {
		c.scope.declare(p.Name, typeOfField(p.Type), p.Loc, &c.diags)
	}

	// First pass over statements just to detect whether any mutation
	// operator appears, so write-context checks during the real typing
	// pass can consult a stable c.isWrite rather than depending on
	// statement order.
	c.isWrite = anyMutation(q.Statements)

	for _, s := range q.Statements {
		c.analyzeStatement(s)
	}
	for _, r := range q.Returns {
		c.typeExpr(r.Expr)
	}
	return c.diags, c.isWrite
}

func anyMutation(stmts []ast.Statement) bool {
	for _, s := range stmts {
		if s.Kind == ast.StmtDrop {
			return true
		}
		if exprHasMutation(s.AssignExpr) || exprHasMutation(s.Expr) {
			return true
		}
		if s.Kind == ast.StmtForLoop && anyMutation(s.ForBody) {
			return true
		}
	}
	return false
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

func (c *qctx) analyzeStatement(s ast.Statement) {
	switch s.Kind {
	case ast.StmtAssignment:
		t := c.typeExpr(s.AssignExpr)
		c.scope.declare(s.AssignName, t, s.Loc, &c.diags)
	case ast.StmtForLoop:
		srcType := c.typeExpr(s.ForSource)
		if !srcType.isPlural() && srcType.Kind != TypeAnonymous {
			c.diags = append(c.diags, errf(E601ForSourceNotArray, s.Loc,
				"for-loop source must be an array or a plural traversal result"))
		}
		c.scope.push()
		c.bindForVars(s, srcType)
		for _, inner := range s.ForBody {
			c.analyzeStatement(inner)
		}
		c.scope.pop()
	case ast.StmtDrop:
		if !c.isWrite {
			c.diags = append(c.diags, errf(E203WriteInReadContext, s.Loc,
				"DROP requires a write-opened traversal"))
		}
		t := c.typeExpr(s.DropExpr)
		if !t.isGraphElement() && t.Kind != TypeAnonymous {
			c.diags = append(c.diags, errf(E201UnknownField, s.Loc, "DROP target is not a node/edge/vector"))
		}
	case ast.StmtExpr:
		if exprHasMutation(s.Expr) && !c.isWrite {
			c.diags = append(c.diags, errf(E203WriteInReadContext, s.Loc,
				"mutation operator used outside a write-opened traversal"))
		}
		c.typeExpr(s.Expr)
	}
}

// bindForVars binds the 1 or 2+ loop variables a FOR statement declares.
// A single variable binds to the source's element type; 2+ variables
// destructure an object element, each field checked to exist
// (E202/E602 otherwise).
func (c *qctx) bindForVars(s ast.Statement, srcType Type) {
	elem := elementType(srcType)
	if len(s.ForVarNames) == 1 {
		c.scope.declare(s.ForVarNames[0], elem, s.Loc, &c.diags)
		return
	}
	if elem.Kind != TypeObject {
		c.diags = append(c.diags, errf(E602DestructureArity, s.Loc,
			"destructuring for-loop requires an object element type"))
		for _, name := range s.ForVarNames {
			c.scope.declare(name, Type{Kind: TypeAnonymous}, s.Loc, &c.diags)
		}
		return
	}
	for _, name := range s.ForVarNames {
		ft, ok := elem.Fields[name]
		if !ok {
			c.diags = append(c.diags, errf(E202DestructureMismatch, s.Loc,
				"destructured field %q does not exist on the loop source's element type", name))
			ft = Type{Kind: TypeAnonymous}
		}
		c.scope.declare(name, ft, s.Loc, &c.diags)
	}
}

func elementType(t Type) Type {
	switch t.Kind {
	case TypeNodePlural:
		return singular(TypeNode, t.Label)
	case TypeEdgePlural:
		return singular(TypeEdge, t.Label)
	case TypeVectorPlural:
		return singular(TypeVector, t.Label)
	case TypeArray:
		if t.Elem != nil {
			return *t.Elem
		}
	}
	return Type{Kind: TypeAnonymous}
}

func typeOfField(t ast.FieldType) Type {
	switch t.Kind {
	case ast.FieldArray:
		var elem Type
		if t.Of != nil {
			elem = typeOfField(*t.Of)
		}
		return Type{Kind: TypeArray, Elem: &elem}
	case ast.FieldObject:
		fields := make(map[string]Type, len(t.Fields))
		for _, f := range t.Fields {
			fields[f.Name] = typeOfField(f.Type)
		}
		return Type{Kind: TypeObject, Fields: fields}
	case ast.FieldBool:
		return Type{Kind: TypeBoolean}
	default:
		return Type{Kind: TypeScalar, Scalar: t.Kind}
	}
}

// typeExpr types one expression, recording diagnostics for unresolved
// identifiers/fields/labels along the way, and returns its Type.
func (c *qctx) typeExpr(e ast.Expr) Type {
	switch e.Kind {
	case ast.ExprIdentifier:
		t, ok := c.scope.lookup(e.Name)
		if !ok {
			c.diags = append(c.diags, errf(E302UnknownIdent, e.Loc, "unknown identifier %q", e.Name))
			return Type{Kind: TypeAnonymous}
		}
		return t
	case ast.ExprParameterAccess:
		t, ok := c.scope.lookup(e.Name)
		if !ok {
			c.diags = append(c.diags, errf(E302UnknownIdent, e.Loc, "unknown parameter field %q", e.Name))
			return Type{Kind: TypeAnonymous}
		}
		return t
	case ast.ExprLiteral:
		return typeOfLiteral(e.Literal)
	case ast.ExprObjectLiteral:
		fields := make(map[string]Type, len(e.Fields))
		for _, f := range e.Fields {
			if f.Value != nil {
				fields[f.Name] = c.typeExpr(*f.Value)
			}
		}
		return Type{Kind: TypeObject, Fields: fields}
	case ast.ExprTraversal:
		return c.typeTraversal(e.Traversal)
	default:
		return Type{Kind: TypeAnonymous}
	}
}

func typeOfLiteral(v ast.FieldValue) Type {
	switch v.Kind {
	case ast.ValBool:
		return Type{Kind: TypeBoolean}
	case ast.ValArray:
		var elem Type
		if len(v.Array) > 0 {
			elem = typeOfLiteral(v.Array[0])
		} else {
			elem = Type{Kind: TypeAnonymous}
		}
		return Type{Kind: TypeArray, Elem: &elem}
	default:
		return Type{Kind: TypeScalar}
	}
}

// typeTraversal resolves a traversal expression's source and returns the
// resulting type after its step chain. For add_edge only the edge label is
// checked (E303, in typeStep); the endpoint types are not compared with
// the schema-declared edge. The resulting type is
// approximated as the source's cardinality and kind, since steps like
// out/in/filter/order preserve element kind and only search/rerank/group
// change it materially (handled explicitly below).
func (c *qctx) typeTraversal(tr *ast.Traversal) Type {
	if tr == nil {
		return Type{Kind: TypeAnonymous}
	}

	var cur Type
	switch tr.SourceKind {
	case ast.SourceNFromID:
		cur = singular(TypeNode, tr.SourceLabel)
	case ast.SourceNFromType:
		cur = plural(TypeNodePlural, tr.SourceLabel)
	case ast.SourceEFromID:
		cur = singular(TypeEdge, tr.SourceLabel)
	case ast.SourceEFromType:
		cur = plural(TypeEdgePlural, tr.SourceLabel)
	case ast.SourceVFromID:
		cur = singular(TypeVector, tr.SourceLabel)
	case ast.SourceVFromType:
		cur = plural(TypeVectorPlural, tr.SourceLabel)
	case ast.SourceIdentifier:
		if len(tr.SourceArgs) == 1 {
			cur = c.typeExpr(tr.SourceArgs[0])
		}
	default:
		cur = Type{Kind: TypeAnonymous}
	}

	for _, arg := range tr.SourceArgs {
		if tr.SourceKind != ast.SourceIdentifier {
			c.typeExpr(arg)
		}
	}

	for _, step := range tr.Steps {
		cur = c.typeStep(step, cur)
	}
	return cur
}

// typeStep narrows or transforms cur by one chained step call. Only the
// steps that change TraversalValue's variant (out/in flip node<->edge,
// search_v/search_bm25 introduce vectors/scored values, count yields an
// aggregate, group_by/aggregate_by produce an object) are
// modeled explicitly; purely filtering/ordering steps pass cur through
// unchanged, matching the operator contracts in spec.md §4.E.
// Step argument lists mix label/property names (bare identifiers that
// name a schema item, not a scope-bound variable) with real value
// expressions, and the grammar doesn't distinguish the two syntactically
// — both parse as `expr`. The analyzer therefore doesn't recurse into
// step args at all; codegen resolves each step's own argument
// conventions directly against the AST instead of relying on a type
// recorded here. Only the source/return/assignment/for-loop positions
// above, where an identifier unambiguously means "a previously bound
// variable", are scope-checked.
func (c *qctx) typeStep(step ast.Step, cur Type) Type {
	switch step.Name {
	case "Out", "In":
		return plural(TypeNodePlural, "")
	case "OutE", "InE":
		return plural(TypeEdgePlural, "")
	case "FromN", "ToN":
		return singular(TypeNode, "")
	case "FromV", "ToV":
		return singular(TypeVector, "")
	case "AddN":
		return singular(TypeNode, "")
	case "AddEdge":
		if len(step.Args) > 0 && step.Args[0].Kind == ast.ExprIdentifier {
			if _, ok := c.sm.Edges[step.Args[0].Name]; !ok {
				c.diags = append(c.diags, errf(E303UnknownLabel, step.Loc,
					"AddEdge: %q is not a declared edge type", step.Args[0].Name))
			}
		}
		return plural(TypeEdgePlural, "")
	case "InsertV":
		return singular(TypeVector, "")
	case "Update", "Drop":
		return cur
	case "Count":
		return Type{Kind: TypeAggregate}
	case "GroupBy", "AggregateBy":
		return Type{Kind: TypeObject}
	case "SearchV", "BruteForceSearchV":
		return plural(TypeVectorPlural, "")
	case "SearchBM25":
		return plural(TypeNodePlural, "")
	case "ShortestPath":
		return Type{Kind: TypeObject}
	default:
		return cur
	}
}
