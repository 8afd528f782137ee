// Package ast defines the HelixQL abstract syntax tree: schema
// declarations (N::/E::/V::), migrations, and QUERY blocks. Node shapes
// follow original_source/helix-db's helixc::analyzer::types /
// helixc::parser::types (NodeSchema{name,fields}, EdgeSchema{name,
// from,to,properties}, VectorSchema{name,fields}, Parameter{name,
// field_type,is_optional}), re-expressed as Go structs with an explicit
// Loc on every node instead of Rust's (Loc, T) tuple convention.
package ast

// Loc is a source position, attached to every AST node so the analyzer
// can render file/line/col diagnostics.
type Loc struct {
	File string
	Line int
	Col  int
}

// FieldTypeKind tags the primitive/compound type of a declared field.
type FieldTypeKind uint8

const (
	FieldString FieldTypeKind = iota
	FieldI8
	FieldI16
	FieldI32
	FieldI64
	FieldU8
	FieldU16
	FieldU32
	FieldU64
	FieldU128
	FieldF32
	FieldF64
	FieldBool
	FieldDate
	FieldUUID
	FieldArray
	FieldObject
	FieldIdentifier // a reference to another declared type by name
)

// FieldType is a (possibly nested) field type: Array wraps Of, Object
// carries Fields, Identifier carries Name.
type FieldType struct {
	Kind   FieldTypeKind
	Of     *FieldType // set when Kind == FieldArray
	Fields []Field    // set when Kind == FieldObject
	Name   string      // set when Kind == FieldIdentifier
	Loc    Loc
}

// Field is one member of a schema type or an object literal.
type Field struct {
	Name      string
	Type      FieldType
	Indexed   bool // "INDEX" prefix
	Unique    bool // "Unique" index kind
	DefaultOf *FieldValue
	Loc       Loc
}

// NodeSchema is an `N::Name { fields }` declaration.
type NodeSchema struct {
	Name   string
	Fields []Field
	Loc    Loc
}

// EdgeSchema is an `E::Name { From: X, To: Y, Properties: { ... } }`
// declaration.
type EdgeSchema struct {
	Name       string
	From       string
	To         string
	Properties []Field
	Loc        Loc
}

// VectorSchema is a `V::Name { fields }` declaration.
type VectorSchema struct {
	Name   string
	Fields []Field
	Loc    Loc
}

// Schema is the full set of type declarations parsed from one or more
// schema files.
type Schema struct {
	Nodes      []NodeSchema
	Edges      []EdgeSchema
	Vectors    []VectorSchema
	Migrations []Migration
}

// MappingKind selects how one item of a migration's body maps a source
// field to a destination field.
type MappingKind uint8

const (
	MapCopy MappingKind = iota
	MapLiteral
	MapCast
)

// ItemMapping is one field-level rule inside a migration body.
type ItemMapping struct {
	SourceField string
	DestField   string
	Kind        MappingKind
	Literal     *FieldValue // set when Kind == MapLiteral
	CastTo      *FieldType  // set when Kind == MapCast
	Loc         Loc
}

// Migration is a `MIGRATION Name FROM n TO m { ... }` block.
type Migration struct {
	ItemName    string
	FromVersion int
	ToVersion   int
	Mappings    []ItemMapping
	Loc         Loc
}

// Parameter is one formal parameter of a QUERY declaration.
type Parameter struct {
	Name       string
	Type       FieldType
	IsOptional bool
	Loc        Loc
}

// Query is a `QUERY name(params) => statements RETURN exprs` block.
type Query struct {
	Name       string
	Parameters []Parameter
	Statements []Statement
	Returns    []ReturnBinding
	MCP        bool // declared with the MCP keyword before QUERY
	Loc        Loc
}

// ReturnBinding is one `name: expr` pair in a RETURN clause.
type ReturnBinding struct {
	Name string
	Expr Expr
	Loc  Loc
}

// StatementKind tags the variant held by Statement.
type StatementKind uint8

const (
	StmtAssignment StatementKind = iota
	StmtForLoop
	StmtDrop
	StmtExpr
)

// Statement is one statement inside a QUERY body.
type Statement struct {
	Kind StatementKind

	// StmtAssignment
	AssignName string
	AssignExpr Expr

	// StmtForLoop
	ForVarNames []string // 1 for a plain element, 2+ for destructuring
	ForSource   Expr
	ForBody     []Statement

	// StmtDrop
	DropExpr Expr

	// StmtExpr (bare expression, e.g. a mutation used only for effect)
	Expr Expr

	Loc Loc
}

// ExprKind tags the variant held by Expr.
type ExprKind uint8

const (
	ExprIdentifier ExprKind = iota
	ExprLiteral
	ExprTraversal
	ExprObjectLiteral
	ExprParameterAccess
)

// Expr is a HelixQL expression: an identifier reference, a literal, a
// traversal (source + chained steps), an inline object literal, or a
// `_::{field}` parameter-field access.
type Expr struct {
	Kind ExprKind

	// ExprIdentifier / ExprParameterAccess
	Name string

	// ExprLiteral
	Literal FieldValue

	// ExprTraversal
	Traversal *Traversal

	// ExprObjectLiteral
	Fields []ObjectField

	Loc Loc
}

// ObjectField is one `name: expr` member of an inline object literal
// (distinct from Field, which describes a schema member's declared
// type rather than a runtime value).
type ObjectField struct {
	Name  string
	Value *Expr
	Loc   Loc
}

// TraversalSourceKind tags how a Traversal begins.
type TraversalSourceKind uint8

const (
	SourceNFromID TraversalSourceKind = iota
	SourceNFromType
	SourceEFromID
	SourceEFromType
	SourceVFromID
	SourceVFromType
	SourceIdentifier // continuing from a previously bound variable
	SourceSearchV
	SourceSearchBM25
)

// Traversal is a source step plus a chain of named step calls, the
// structure `id_traversal`/`anonymous_traversal` productions in
// original_source's grammar build.
type Traversal struct {
	SourceKind TraversalSourceKind
	// SourceLabel is the `<Type>` hint on a typed source (`N<User>(id)`,
	// `E<Follows>`, `V<Embedding>`), empty for an untyped source
	// (`N(id)`) or one continuing from a bound identifier.
	SourceLabel string
	SourceArgs  []Expr
	Steps       []Step
	Loc         Loc
}

// Step is one `.StepName(args)` call in a traversal chain.
type Step struct {
	Name string
	Args []Expr
	Loc  Loc
}

// FieldValueKind tags the variant held by FieldValue.
type FieldValueKind uint8

const (
	ValString FieldValueKind = iota
	ValInt
	ValFloat
	ValBool
	ValNone
	ValIdentifier
	ValArray
)

// FieldValue is a literal or identifier-reference value, used both for
// object-literal fields and migration literal mappings.
type FieldValue struct {
	Kind    FieldValueKind
	Str     string
	Int     int64
	Float   float64
	Bool    bool
	Ident   string
	Array   []FieldValue
	Loc     Loc
}
