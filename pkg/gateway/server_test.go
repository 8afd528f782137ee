package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGatewayRunStopsOnCancel(t *testing.T) {
	g, _ := newTestGateway(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Run(ctx, "127.0.0.1:0")
	}()

	// Give the listener a moment to bind before tearing it down.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestGatewayShutdownWithoutServeIsNoop(t *testing.T) {
	g, _ := newTestGateway(t)
	assert.NoError(t, g.Shutdown(context.Background()))
}
