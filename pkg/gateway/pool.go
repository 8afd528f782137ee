package gateway

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/metrics"
	"github.com/cuemby/helixdb/pkg/protocol"
)

// channelCapacity is the bounded capacity spec.md §4.H assigns to each of
// the read-preferred and write-preferred channels.
const channelCapacity = 1000

// PoolConfig sizes the worker pool: cores × threadsPerCore pinned OS
// threads, per spec.md §4.H.
type PoolConfig struct {
	// Cores is the number of CPU cores to pin workers to. Zero means
	// runtime.NumCPU().
	Cores int
	// ThreadsPerCore is the worker multiplier per core. Zero means 1.
	ThreadsPerCore int
}

func (c PoolConfig) resolve() (cores, threadsPerCore int) {
	cores = c.Cores
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	threadsPerCore = c.ThreadsPerCore
	if threadsPerCore <= 0 {
		threadsPerCore = 1
	}
	return cores, threadsPerCore
}

type job struct {
	ctx      context.Context
	req      protocol.Request
	fn       HandlerFunc
	resultCh chan jobResult
}

type jobResult struct {
	resp protocol.Response
	err  error
}

// workerSlot is one pinned worker's private inbox. Each channel class
// (read-preferred, write-preferred) owns a fixed slice of slots; dispatch
// round-robins across a class's slots rather than sharing one channel
// among every worker, per DESIGN.md's Open Question decision on the
// parity mechanism (fairness-in-expectation, no bias to "even" workers).
type workerSlot struct {
	inbox chan *job
}

// WorkerPool is the concurrency substrate of spec.md §4.H: pinned OS
// threads draining two bounded, per-class channel groups, upholding the
// single-writer/many-reader discipline the storage engine already
// guarantees internally (bbolt serializes writers on its own; the pool
// only needs to route, not additionally lock).
//
// Grounded on cuemby-warren's pkg/worker.Worker: a struct holding a
// stopCh, goroutines looping on select{case <-inbox: ...; case
// <-stopCh: return}, torn down by closing stopCh and waiting on a
// sync.WaitGroup.
type WorkerPool struct {
	readSlots  []*workerSlot
	writeSlots []*workerSlot

	readNext  atomic.Uint64
	writeNext atomic.Uint64

	stopCh chan struct{}
	wg     sync.WaitGroup

	started bool
	mu      sync.Mutex
}

// NewWorkerPool constructs a pool sized per cfg but does not start it.
func NewWorkerPool(cfg PoolConfig) *WorkerPool {
	cores, threadsPerCore := cfg.resolve()
	total := cores * threadsPerCore
	if total < 1 {
		total = 1
	}
	// Split threads evenly between the two classes, biasing the extra
	// thread (on an odd total) to the read-preferred class since reads
	// vastly outnumber writes under typical workloads.
	writeCount := total / 2
	if writeCount < 1 {
		writeCount = 1
	}
	readCount := total - writeCount
	if readCount < 1 {
		readCount = 1
	}

	p := &WorkerPool{stopCh: make(chan struct{})}
	for i := 0; i < readCount; i++ {
		p.readSlots = append(p.readSlots, &workerSlot{inbox: make(chan *job, channelCapacity)})
	}
	for i := 0; i < writeCount; i++ {
		p.writeSlots = append(p.writeSlots, &workerSlot{inbox: make(chan *job, channelCapacity)})
	}
	return p
}

// Start pins one goroutine per worker slot to an OS thread and begins
// draining its inbox. Safe to call once; a second call is a no-op.
func (p *WorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	for _, slot := range p.readSlots {
		p.wg.Add(1)
		go p.runWorker(slot)
	}
	for _, slot := range p.writeSlots {
		p.wg.Add(1)
		go p.runWorker(slot)
	}
}

// Stop signals every worker to finish its current job and exit, then
// waits for all of them to return.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	close(p.stopCh)
	p.wg.Wait()
}

func (p *WorkerPool) runWorker(slot *workerSlot) {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case j := <-slot.inbox:
			p.execute(j)
		case <-p.stopCh:
			return
		}
	}
}

func (p *WorkerPool) execute(j *job) {
	metrics.GatewayWorkersBusy.Inc()
	defer metrics.GatewayWorkersBusy.Dec()

	if !j.req.Deadline.IsZero() && time.Now().After(j.req.Deadline) {
		p.deliver(j, jobResult{err: protocol.ErrDeadlineExceeded})
		return
	}

	timer := metrics.NewTimer()
	resp, err := j.fn(j.ctx, j.req)
	timer.ObserveDurationVec(metrics.QueryDuration, j.req.Name)
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues(j.req.Name, string(herrors.CategoryOf(err))).Inc()
	}

	// Cancellation semantics (spec.md §4.H, §5): the handler already ran
	// to completion and any write already committed. If nothing is
	// listening on resultCh anymore the result is simply dropped.
	p.deliver(j, jobResult{resp: resp, err: err})
}

func (p *WorkerPool) deliver(j *job, res jobResult) {
	select {
	case j.resultCh <- res:
	default:
	}
}

func (p *WorkerPool) nextSlot(slots []*workerSlot, counter *atomic.Uint64) *workerSlot {
	idx := counter.Add(1) - 1
	return slots[idx%uint64(len(slots))]
}

// Submit enqueues req onto the appropriate channel class (per
// req.IsWrite()) via round-robin worker selection, then blocks until the
// handler completes, the deadline carried in req passes, or ctx is
// cancelled. A cancelled ctx does not stop the handler: spec.md §5 states
// cancellation drops the result without aborting the in-flight
// transaction.
func (p *WorkerPool) Submit(ctx context.Context, req protocol.Request, fn HandlerFunc) (protocol.Response, error) {
	j := &job{ctx: ctx, req: req, fn: fn, resultCh: make(chan jobResult, 1)}

	var slot *workerSlot
	var queueLabel string
	if req.IsWrite() {
		slot = p.nextSlot(p.writeSlots, &p.writeNext)
		queueLabel = "write"
	} else {
		slot = p.nextSlot(p.readSlots, &p.readNext)
		queueLabel = "read"
	}
	metrics.GatewayQueueDepth.WithLabelValues(queueLabel).Set(float64(len(slot.inbox)))

	deadlineCh := deadlineChan(req.Deadline)

	select {
	case slot.inbox <- j:
	case <-deadlineCh:
		return protocol.Response{}, protocol.ErrDeadlineExceeded
	case <-ctx.Done():
		return protocol.Response{}, ctx.Err()
	}

	select {
	case res := <-j.resultCh:
		return res.resp, res.err
	case <-deadlineCh:
		return protocol.Response{}, protocol.ErrDeadlineExceeded
	case <-ctx.Done():
		// The job stays queued/running; we just stop waiting on it.
		return protocol.Response{}, ctx.Err()
	}
}

func deadlineChan(deadline time.Time) <-chan time.Time {
	if deadline.IsZero() {
		return nil
	}
	return time.After(time.Until(deadline))
}
