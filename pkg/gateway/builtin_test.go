package gateway

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/storage"
	"github.com/cuemby/helixdb/pkg/types"
)

func openTestEngineWithData(t *testing.T) (*storage.Engine, types.ID) {
	t.Helper()
	e, err := storage.Open(t.TempDir(), types.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })

	var id types.ID
	require.NoError(t, e.Update(func(w *storage.WriteTxn) error {
		props := types.NewPropertyMap()
		props.Set("name", types.StringValue("Alice"))
		n := &types.Node{ID: types.NewID(), Label: "Person", Properties: props}
		if err := w.PutNode(n); err != nil {
			return err
		}
		id = n.ID
		return nil
	}))
	return e, id
}

func newTestGateway(t *testing.T) (*Gateway, types.ID) {
	e, id := openTestEngineWithData(t)
	g := New(e, NewRegistry(), NewWorkerPool(PoolConfig{Cores: 1, ThreadsPerCore: 1}))
	return g, id
}

func TestHandleNodeDetailsFound(t *testing.T) {
	g, id := newTestGateway(t)

	req := httptest.NewRequest("GET", "/node-details?id="+id.String(), nil)
	rr := httptest.NewRecorder()
	g.Router().ServeHTTP(rr, req)

	assert.Equal(t, 200, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["found"])
	node := body["node"].(map[string]any)
	assert.Equal(t, "Alice", node["name"])
	assert.Equal(t, "Person", node["label"])
}

func TestHandleNodeDetailsNotFound(t *testing.T) {
	g, _ := newTestGateway(t)

	req := httptest.NewRequest("GET", "/node-details?id="+types.NewID().String(), nil)
	rr := httptest.NewRecorder()
	g.Router().ServeHTTP(rr, req)

	assert.Equal(t, 200, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["found"])
}

func TestHandleNodeDetailsInvalidID(t *testing.T) {
	g, _ := newTestGateway(t)

	req := httptest.NewRequest("GET", "/node-details?id=not-a-uuid", nil)
	rr := httptest.NewRecorder()
	g.Router().ServeHTTP(rr, req)

	assert.Equal(t, 400, rr.Code)
}

func TestHandleNodesByLabel(t *testing.T) {
	g, _ := newTestGateway(t)

	req := httptest.NewRequest("GET", "/nodes-by-label?label=Person&limit=10", nil)
	rr := httptest.NewRecorder()
	g.Router().ServeHTTP(rr, req)

	assert.Equal(t, 200, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
	nodes := body["nodes"].([]any)
	assert.Len(t, nodes, 1)
}

func TestHandleNodesByLabelMissingLabel(t *testing.T) {
	g, _ := newTestGateway(t)

	req := httptest.NewRequest("GET", "/nodes-by-label", nil)
	rr := httptest.NewRecorder()
	g.Router().ServeHTTP(rr, req)

	assert.Equal(t, 400, rr.Code)
}

func TestHandleNodesEdges(t *testing.T) {
	g, _ := newTestGateway(t)

	req := httptest.NewRequest("GET", "/nodes-edges?limit=50", nil)
	rr := httptest.NewRecorder()
	g.Router().ServeHTTP(rr, req)

	assert.Equal(t, 200, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["num_nodes"])
	assert.Equal(t, float64(0), stats["num_edges"])
}

func TestHandleQueryUnknownName(t *testing.T) {
	g, _ := newTestGateway(t)

	req := httptest.NewRequest("POST", "/no_such_query", nil)
	rr := httptest.NewRecorder()
	g.Router().ServeHTTP(rr, req)

	assert.Equal(t, 400, rr.Code)
}

func TestHandleQueryDispatchesToHandler(t *testing.T) {
	g, _ := newTestGateway(t)
	g.pool.Start()
	defer g.pool.Stop()

	g.registry.Register(&Handler{
		Name: "echo",
		Fn:   echoHandler([]byte(`{"pong":true}`)),
	})

	req := httptest.NewRequest("POST", "/echo", nil)
	rr := httptest.NewRecorder()
	g.Router().ServeHTTP(rr, req)

	assert.Equal(t, 200, rr.Code)
	assert.JSONEq(t, `{"pong":true}`, rr.Body.String())
}
