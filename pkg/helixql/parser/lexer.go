package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// helixLexer tokenizes HelixQL source. Kept deliberately simple (one
// regex pass, like participle's own "basic" example) rather than a
// stateful lexer, since HelixQL has no nested string interpolation or
// indentation-sensitive syntax.
var helixLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Arrow", Pattern: `=>`},
	{Name: "DoubleColon", Pattern: `::`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "String", Pattern: `"(\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[{}()\[\],:.<>=!]`},
})
