package gateway

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// httpTimeouts mirror cuemby-warren's pkg/api.HealthServer.Start: modest
// read/write/idle bounds so a slow client can't pin a connection forever.
const (
	readTimeout  = 5 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// Serve starts an HTTP server bound to addr and blocks until it stops. The
// caller is expected to run this in its own goroutine and call Shutdown
// from a signal handler, following cuemby-warren's cmd-level graceful
// shutdown pattern.
func (g *Gateway) Serve(addr string) error {
	g.httpServer = &http.Server{
		Addr:         addr,
		Handler:      g.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	err := g.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully drains in-flight HTTP requests (not worker-pool
// jobs, which the caller stops separately via WorkerPool.Stop).
func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.httpServer == nil {
		return nil
	}
	return g.httpServer.Shutdown(ctx)
}

// Run starts the HTTP server and the worker pool together, stopping both
// when ctx is cancelled. It returns once every goroutine it started has
// exited, collapsing the serve-goroutine/signal-wait/shutdown sequence
// cuemby-warren's cmd-level main hand-rolls with a raw channel into a
// single errgroup.
func (g *Gateway) Run(ctx context.Context, addr string) error {
	g.pool.Start()

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return g.Serve(addr)
	})
	grp.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := g.Shutdown(shutdownCtx)
		g.pool.Stop()
		return err
	})

	return grp.Wait()
}
