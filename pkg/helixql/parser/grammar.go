package parser

import "github.com/alecthomas/participle/v2/lexer"

// The types below are participle's raw parse tree: one struct per
// grammar production, built directly from struct tags. convert.go maps
// this tree onto the clean pkg/helixql/ast types; keeping the two
// separate lets the grammar mirror HelixQL's concrete syntax closely
// without forcing the analyzer-facing AST to carry parser plumbing
// (lexer.Position, pointer-heavy optionals, alternation noise).

// File is the root production: a sequence of top-level declarations in
// any order, mirroring original_source's top-level `source` rule which
// allows node/edge/vector/migration/query declarations to interleave.
type File struct {
	Pos lexer.Position

	Nodes      []*nodeDecl      `( @@`
	Edges      []*edgeDecl      ` | @@`
	Vectors    []*vectorDecl    ` | @@`
	Migrations []*migrationDecl ` | @@`
	Queries    []*queryDecl     ` | @@ )*`
}

type nodeDecl struct {
	Pos    lexer.Position
	Name   string       `"N" "::" @Ident`
	Fields []*fieldDecl `"{" (@@ ("," @@)*)? "}"`
}

type edgeDecl struct {
	Pos        lexer.Position
	Name       string       `"E" "::" @Ident "{"`
	From       string       `"From" ":" @Ident ","`
	To         string       `"To" ":" @Ident`
	Properties []*fieldDecl `("," "Properties" ":" "{" (@@ ("," @@)*)? "}")? "}"`
}

type vectorDecl struct {
	Pos    lexer.Position
	Name   string       `"V" "::" @Ident`
	Fields []*fieldDecl `"{" (@@ ("," @@)*)? "}"`
}

type fieldDecl struct {
	Pos     lexer.Position
	Indexed bool     `@"INDEX"?`
	Unique  bool     `@"Unique"?`
	Name    string   `@Ident ":"`
	Type    *typeRef `@@`
}

type typeRef struct {
	Pos    lexer.Position
	Array  *typeRef     `( "[" @@ "]"`
	Object []*fieldDecl `| "{" (@@ ("," @@)*)? "}"`
	Name   string       `| @Ident )`
}

// migrationDecl: concrete syntax invented for this port — the original
// Rust implementation's pest grammar file was not present in the
// retrieved source (only its post-parse analyzer methods were), so the
// shape below is modeled off what migration_validation.rs consumes
// (an item name, a from/to schema version pair, and a list of
// per-field mappings that are either a copy, a literal, or a cast),
// not transcribed from a grammar source.
type migrationDecl struct {
	Pos         lexer.Position
	ItemName    string              `"MIGRATION" @Ident`
	FromVersion string              `"FROM" @Int`
	ToVersion   string              `"TO" @Int "{"`
	Mappings    []*migrationMapping `(@@ ("," @@)*)? "}"`
}

type migrationMapping struct {
	Pos       lexer.Position
	DestField string        `@Ident ":"`
	Copy      string        `( "COPY" @Ident`
	CastFrom  string        ` | "CAST" @Ident "AS"`
	CastTo    *typeRef      `   @@`
	Literal   *literalValue ` | "LITERAL" @@ )`
}

type queryDecl struct {
	Pos        lexer.Position
	MCP        bool             `@"MCP"?`
	Name       string           `"QUERY" @Ident "("`
	Parameters []*paramDecl     `(@@ ("," @@)*)? ")" "=>"`
	Statements []*statementDecl `@@*`
	Returns    []*returnBinding `"RETURN" @@ ("," @@)*`
}

type paramDecl struct {
	Pos        lexer.Position
	Name       string   `@Ident ":"`
	IsOptional bool     `@"?"?`
	Type       *typeRef `@@`
}

type returnBinding struct {
	Pos  lexer.Position
	Name string `@Ident ":"`
	Expr *expr  `@@`
}

// statementDecl covers assignment, for-loop, drop, and bare-expression
// statements. Each alternative is mutually exclusive on its leading
// keyword/token, so participle's ordered alternation resolves it
// without backtracking.
type statementDecl struct {
	Pos lexer.Position

	// assignment: `name <- expr`
	AssignName string `( @Ident "<"`
	AssignExpr *expr  `  "-" @@`

	// for loop: `FOR (a, b) IN expr { stmt* }` — parens/second name
	// optional for the single-binding case.
	ForVar1 string           ` | "FOR" ( "(" @Ident`
	ForVar2 string           `     ("," @Ident)? ")"`
	ForVar1Bare string       `   | @Ident )`
	ForSource *expr          `   "IN" @@ "{"`
	ForBody   []*statementDecl ` @@* "}"`

	// drop: `DROP expr`
	DropExpr *expr ` | "DROP" @@`

	// bare expression statement, used for effect-only mutations
	BareExpr *expr ` | @@ )`
}

type literalValue struct {
	Pos   lexer.Position
	Str   *string         `( @String`
	Float *float64        ` | @Float`
	Int   *int64          ` | @Int`
	Bool  *string         ` | @("true" | "false")`
	None  bool            ` | @"NONE"`
	Array []*literalValue ` | "[" (@@ ("," @@)*)? "]" )`
}

// expr covers identifiers, literals, object literals, parameter field
// access (`_::field`), and traversals (source step + chained steps).
type expr struct {
	Pos lexer.Position

	ObjectLiteral []*fieldAssign `( "{" @@ ("," @@)* "}"`
	Traversal     *traversalExpr ` | @@`
	Literal       *literalValue  ` | @@`
	ParamField    string         ` | "_" "::" @Ident`
	Identifier    string         ` | @Ident )`
}

type fieldAssign struct {
	Pos   lexer.Position
	Name  string `@Ident ":"`
	Value *expr  `@@`
}

// traversalExpr: a typed or identifier-rooted source, followed by zero
// or more chained `.Step(args)` calls — mirrors original_source's
// start_node + step sequence (parser/traversal_parse_methods.rs).
type traversalExpr struct {
	Pos lexer.Position

	SourceKind string  `( @("N" | "E" | "V")`
	SourceType string  `  ( "<" @Ident ">" )?`
	SourceArgs []*expr `  ( "(" (@@ ("," @@)*)? ")" )?`

	SourceIdent string `| @Ident )`

	Steps []*stepCall `("." @@)*`
}

type stepCall struct {
	Pos  lexer.Position
	Name string  `@Ident`
	Args []*expr `"(" (@@ ("," @@)*)? ")"`
}
