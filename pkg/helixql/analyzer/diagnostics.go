// Package analyzer implements HelixQL's two-phase semantic analysis:
// a schema pass that builds a versioned type map from N::/E::/V::
// declarations and validates migrations, and a query pass that types
// every expression in a QUERY block against that map. Grounded on
// original_source/helix-db's helixc::analyzer::methods (schema_methods,
// query_methods, migration_validation), re-expressed as a scope-stack
// walker instead of the original's visitor-trait dispatch.
package analyzer

import "fmt"

// Severity distinguishes a diagnostic that aborts code generation from
// one that's merely informational (spec.md §4.F: "Warnings do not abort
// generation; errors do.").
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Code is a numbered diagnostic code in the E1xx (schema) / E2xx (fields)
// / E3xx (scope) / E6xx (for-loop) families spec.md §4.F assigns.
type Code string

const (
	// E1xx: schema pass.
	E101DuplicateNode      Code = "E101"
	E102DuplicateEdge      Code = "E102"
	E103DuplicateVector    Code = "E103"
	E104ReservedFieldName  Code = "E104"
	E105UnknownFieldType   Code = "E105"
	E106UnknownEdgeEnd     Code = "E106"
	E107DuplicateMigration Code = "E107"

	// E2xx: field/scope resolution inside a query body.
	E201UnknownField        Code = "E201"
	E202DestructureMismatch Code = "E202"
	E203WriteInReadContext  Code = "E203"
	E204EndpointTypeMismatch Code = "E204"
	E205UnsupportedMigration Code = "E205"
	E206BadCastTarget        Code = "E206"
	E207UnassignableLiteral  Code = "E207"
	E208UnknownMigrationVersion Code = "E208"
	E209UnknownMigrationField   Code = "E209"

	// E3xx: scope.
	E301Shadowing      Code = "E301"
	E302UnknownIdent   Code = "E302"
	E303UnknownLabel   Code = "E303"

	// E6xx: for-loop.
	E601ForSourceNotArray Code = "E601"
	E602DestructureArity  Code = "E602"
)

// Diagnostic is one analyzer finding, rendered with a file-span the way
// spec.md §4.F's "file-span rendering and optional hints" describes.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	File     string
	Line     int
	Col      int
	Hint     string
}

func (d Diagnostic) String() string {
	kind := "error"
	if d.Severity == SeverityWarning {
		kind = "warning"
	}
	s := fmt.Sprintf("%s: [%s] %s:%d:%d: %s", kind, d.Code, d.File, d.Line, d.Col, d.Message)
	if d.Hint != "" {
		s += fmt.Sprintf(" (hint: %s)", d.Hint)
	}
	return s
}

// Diagnostics is the accumulated result of a Schema or Query pass.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is an error (as opposed to a
// warning), the signal codegen uses to decide whether to abort.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors filters to just the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}
