package gateway

import (
	"iter"
	"sync"

	"github.com/google/uuid"

	"github.com/cuemby/helixdb/pkg/metrics"
	"github.com/cuemby/helixdb/pkg/traversal"
)

// MCPConnection holds a resumable snapshot of a traversal.Seq, letting an
// MCP client page through results one tool call at a time instead of
// draining the whole pipeline in one request. Built on Go's iter.Pull,
// which turns the push-style traversal.Seq into an explicit next()/stop()
// pair — exactly the "iterator snapshot" spec.md §4.H calls for, without
// hand-rolling coroutine state.
type MCPConnection struct {
	ID   string
	next func() (traversal.Item, bool)
	stop func()

	mu     sync.Mutex
	closed bool
}

// Next advances the held iterator by one element. ok is false once the
// traversal is exhausted.
func (c *MCPConnection) Next() (traversal.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return traversal.Item{}, false
	}
	return c.next()
}

func (c *MCPConnection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stop()
}

// MCPTable is the process-wide connection table of spec.md §4.H and §5:
// guarded by a short-held mutex, entries owned exclusively by whichever
// tool call currently holds them.
type MCPTable struct {
	mu    sync.Mutex
	conns map[string]*MCPConnection
}

// NewMCPTable builds an empty connection table.
func NewMCPTable() *MCPTable {
	return &MCPTable{conns: make(map[string]*MCPConnection)}
}

// Open starts pulling seq and registers the resulting connection under a
// freshly minted id.
func (t *MCPTable) Open(seq traversal.Seq) *MCPConnection {
	next, stop := iter.Pull(seq)
	conn := &MCPConnection{ID: uuid.NewString(), next: next, stop: stop}

	t.mu.Lock()
	t.conns[conn.ID] = conn
	t.mu.Unlock()
	metrics.MCPConnectionsActive.Inc()

	return conn
}

// Get resolves a connection by id.
func (t *MCPTable) Get(id string) (*MCPConnection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.conns[id]
	return c, ok
}

// Close removes the connection and releases its underlying iterator. Safe
// to call on client disconnect; idempotent.
func (t *MCPTable) Close(id string) {
	t.mu.Lock()
	conn, ok := t.conns[id]
	delete(t.conns, id)
	t.mu.Unlock()

	if ok {
		conn.close()
		metrics.MCPConnectionsActive.Dec()
	}
}

// Len reports the number of live connections. metrics.MCPConnectionsActive
// is updated by Open and Close, not from Len.
func (t *MCPTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}
