package codegen

import "go/token"

// bindKind tags what a bound identifier compiles down to in generated Go,
// mirroring (at a coarser grain) the analyzer's own Type lattice: codegen
// only needs to know enough about a binding to decide how to continue a
// traversal from it or serialize it into a RETURN binding, not its full
// static type.
type bindKind uint8

const (
	bindScalar    bindKind = iota // a plain Go value (param or literal)
	bindTraversal                 // a *traversal.Traversal variable
	bindElement                   // a traversal.TraversalValue, e.g. a FOR-loop variable
	bindPropMap                   // a types.PropertyMap
)

// binding records how one HelixQL identifier was realized in generated Go.
type binding struct {
	goName string
	kind   bindKind
	goType string // meaningful when kind == bindScalar
}

// env is the compiler's symbol table for one handler body: source name ->
// binding. Unlike the analyzer's scope stack, codegen never needs to
// reject shadowing (the analyzer already did), so a flat map with
// save/restore around FOR-loop bodies is enough.
type env struct {
	vars map[string]binding
}

func newEnv() *env { return &env{vars: map[string]binding{}} }

func (e *env) set(name string, b binding) { e.vars[name] = b }

func (e *env) get(name string) (binding, bool) {
	b, ok := e.vars[name]
	return b, ok
}

// snapshot/restore let a FOR-loop body shadow its loop variables without
// leaking them (or clobbering an outer binding of the same Go-rendered
// name) past the closing brace.
func (e *env) snapshot() map[string]binding {
	cp := make(map[string]binding, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return cp
}

func (e *env) restore(snap map[string]binding) { e.vars = snap }

// goIdent sanitizes a HelixQL identifier for use as a Go local variable
// name: HelixQL's own identifier grammar already matches Go's, except it
// permits reserved words (`type`, `range`, ...) that Go does not, so a
// collision gets an underscore suffix rather than a rewrite that would
// make generated code harder to read against the source query.
func goIdent(name string) string {
	if token.IsKeyword(name) {
		return name + "_"
	}
	return name
}
