package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/protocol"
)

func echoHandler(body []byte) HandlerFunc {
	return func(_ context.Context, req protocol.Request) (protocol.Response, error) {
		return protocol.Response{Body: body, Fmt: protocol.FormatJSON}, nil
	}
}

func TestWorkerPoolSubmitReadAndWrite(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Cores: 1, ThreadsPerCore: 2})
	pool.Start()
	defer pool.Stop()

	resp, err := pool.Submit(context.Background(), protocol.Request{Name: "q", Type: protocol.ReqQuery}, echoHandler([]byte(`{"ok":true}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))

	resp, err = pool.Submit(context.Background(), protocol.Request{Name: "m", Type: protocol.ReqMutation}, echoHandler([]byte(`{"written":1}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"written":1}`, string(resp.Body))
}

func TestWorkerPoolDeadlineExceeded(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Cores: 1, ThreadsPerCore: 1})
	pool.Start()
	defer pool.Stop()

	req := protocol.Request{Name: "slow", Type: protocol.ReqQuery, Deadline: time.Now().Add(-time.Second)}
	_, err := pool.Submit(context.Background(), req, echoHandler(nil))
	assert.ErrorIs(t, err, protocol.ErrDeadlineExceeded)
}

func TestWorkerPoolRoundRobinAdvancesPerSubmission(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Cores: 1, ThreadsPerCore: 4})
	pool.Start()
	defer pool.Stop()

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Submit(context.Background(), protocol.Request{Name: "q", Type: protocol.ReqQuery}, echoHandler(nil))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(n), pool.readNext.Load())
}

func TestWorkerPoolStopDrainsNoNewWork(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Cores: 1, ThreadsPerCore: 1})
	pool.Start()
	pool.Stop()

	// After Stop, no worker is draining the inbox; Submit would block
	// forever waiting on the job channel unless the context is already
	// done, so only exercise the already-cancelled-context path here.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pool.Submit(ctx, protocol.Request{Name: "q"}, echoHandler(nil))
	assert.Error(t, err)
}
