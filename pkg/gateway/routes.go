package gateway

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/metrics"
	"github.com/cuemby/helixdb/pkg/protocol"
	"github.com/cuemby/helixdb/pkg/storage"
)

// requestTimeout bounds how long chimw.Timeout lets a request's context
// live; dispatch copies that context deadline into
// protocol.Request.Deadline, which the worker pool enforces itself.
const requestTimeout = 60 * time.Second

// Gateway is the HTTP front door of spec.md §4.H: per-query POST routes,
// POST /mcp/* tool calls, and the three built-in GET introspection routes,
// all dispatched through a WorkerPool. Routing follows the go-chi/chi/v5
// shape _examples/other_examples' vecdex cmd/vecdex main.go sets up
// (middleware stack, mounted sub-routes, a JSON error handler).
type Gateway struct {
	engine     *storage.Engine
	registry   *Registry
	pool       *WorkerPool
	mcp        *MCPTable
	router     chi.Router
	httpServer *http.Server
}

// New wires a Gateway over an already-open engine, a populated handler
// registry, and a worker pool (Start must still be called by the caller).
func New(engine *storage.Engine, registry *Registry, pool *WorkerPool) *Gateway {
	g := &Gateway{engine: engine, registry: registry, pool: pool, mcp: NewMCPTable()}
	g.router = g.buildRouter()
	metrics.RegisterComponent("gateway", true, "")
	return g
}

// Router returns the http.Handler to pass to an http.Server.
func (g *Gateway) Router() http.Handler { return g.router }

// MCP exposes the connection table so the generated #[mcp_handler]
// wrappers can open/close stateful traversal snapshots.
func (g *Gateway) MCP() *MCPTable { return g.mcp }

func (g *Gateway) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))

	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", metrics.HealthHandler())
	r.Get("/ready", metrics.ReadyHandler())
	r.Get("/live", metrics.LivenessHandler())

	r.Get("/nodes-edges", g.handleNodesEdges)
	r.Get("/node-details", g.handleNodeDetails)
	r.Get("/nodes-by-label", g.handleNodesByLabel)

	r.Post("/mcp/{tool}", g.handleMCPTool)
	r.Post("/{query_name}", g.handleQuery)

	return r
}

func (g *Gateway) handleQuery(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "query_name")
	h, ok := g.registry.Lookup(name)
	if !ok {
		writeError(w, herrors.Newf(herrors.NotFound, "unknown query %q", name))
		return
	}
	g.dispatch(w, r, name, h)
}

func (g *Gateway) handleMCPTool(w http.ResponseWriter, r *http.Request) {
	tool := chi.URLParam(r, "tool")
	h, ok := g.registry.Lookup(tool)
	if !ok || !h.MCP {
		writeError(w, herrors.Newf(herrors.NotFound, "unknown mcp tool %q", tool))
		return
	}
	g.dispatch(w, r, tool, h)
}

func (g *Gateway) dispatch(w http.ResponseWriter, r *http.Request, name string, h *Handler) {
	timer := metrics.NewTimer()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, herrors.Wrap(herrors.InvalidInput, "reading request body", err))
		return
	}

	reqType := protocol.ReqQuery
	if h.IsWrite {
		reqType = protocol.ReqMutation
	}
	req := protocol.Request{
		Name:   name,
		Type:   reqType,
		Body:   body,
		InFmt:  protocol.FormatJSON,
		OutFmt: protocol.FormatJSON,
	}
	if dl, ok := r.Context().Deadline(); ok {
		req.Deadline = dl
	}

	resp, err := g.pool.Submit(r.Context(), req, h.Fn)

	status := "ok"
	if err != nil {
		status = "error"
		writeError(w, err)
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp.Body)
	}

	metrics.GatewayRequestsTotal.WithLabelValues(name, status).Inc()
	timer.ObserveDurationVec(metrics.GatewayRequestDuration, name)
}
