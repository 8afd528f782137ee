package traversal

import (
	helixarena "github.com/cuemby/helixdb/pkg/arena"
	"github.com/cuemby/helixdb/pkg/types"
)

// Arena bundles one pkg/arena.Arena per decoded record kind a traversal
// materializes. Go's generic Arena[T] holds exactly one T, so a request
// needing nodes, edges, vectors, and property maps gets one bump arena
// per kind rather than a single mixed-type one; all four are created and
// destroyed together for the lifetime of a request.
type Arena struct {
	Nodes *helixarena.Arena[types.Node]
	Edges *helixarena.Arena[types.Edge]
	Vecs  *helixarena.Arena[types.HVector]
	Props *helixarena.Arena[types.PropertyMap]
}

// NewArena allocates a fresh, empty per-request arena bundle.
func NewArena() *Arena {
	return &Arena{
		Nodes: helixarena.New[types.Node](),
		Edges: helixarena.New[types.Edge](),
		Vecs:  helixarena.New[types.HVector](),
		Props: helixarena.New[types.PropertyMap](),
	}
}

// Reset rewinds every sub-arena, invalidating handles minted so far. Called
// once per request after its response is emitted.
func (a *Arena) Reset() {
	a.Nodes.Reset()
	a.Edges.Reset()
	a.Vecs.Reset()
	a.Props.Reset()
}
