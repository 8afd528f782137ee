package gateway

import (
	"context"
	"sync"

	"github.com/cuemby/helixdb/pkg/protocol"
)

// HandlerFunc is the shape every compiled query handler and MCP tool
// satisfies: decode the request body, run a traversal, encode the result.
// Generated code (pkg/helixql/codegen) emits one of these per QUERY block;
// cmd/helixdb registers the result with a Registry at startup.
type HandlerFunc func(ctx context.Context, req protocol.Request) (protocol.Response, error)

// Handler pairs a compiled handler with the routing metadata the worker
// pool's dispatcher needs: whether it writes (picks the write-preferred
// channel) and whether it's additionally exposed under POST /mcp/*.
type Handler struct {
	Name    string
	IsWrite bool
	MCP     bool
	Fn      HandlerFunc
}

// Registry is the compile-time handler collection spec.md §6 requires:
// "handlers are registered by name via a compile-time collection." It's
// populated once at startup and read-only under request load, but the
// mutex keeps concurrent Register calls (plugins, tests) safe regardless.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Handler
}

// NewRegistry builds an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]*Handler)}
}

// Register adds or replaces the handler for h.Name.
func (r *Registry) Register(h *Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Name] = h
}

// Lookup resolves a handler by name.
func (r *Registry) Lookup(name string) (*Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns every registered handler name, for introspection/testing.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	return out
}
