package pipeline

import (
	"context"
	"sync"
	"time"

	"factory/internal/pkg/errors"
	"factory/internal/pkg/logger"
)

var (
	// ErrQueueFull rejects a submit while the task queue is at capacity.
	ErrQueueFull = errors.New(errors.CodeUnavailable, "dispatch queue is full")
	// ErrStopped rejects a submit after shutdown has begun.
	ErrStopped = errors.New(errors.CodeUnavailable, "dispatcher is stopped")
)

// RecordProcessor is the work a dispatcher schedules; *Processor is the
// production implementation.
type RecordProcessor interface {
	ProcessRecord(ctx context.Context, recordID string) error
}

type task struct {
	recordID  string
	requestID string
}

// Dispatcher runs record tasks on a fixed pool of workers fed by a
// bounded queue, so a burst of triggers cannot spawn unbounded work.
// Beyond the queue capacity the caller gets an explicit rejection.
// Results never reach the submitter; a task's outcome is only observable
// by re-reading its row.
type Dispatcher struct {
	proc    RecordProcessor
	log     *logger.Logger
	queue   chan task
	workers int

	mu      sync.Mutex
	stopped bool

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewDispatcher(proc RecordProcessor, workers, queueSize int, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewDefault()
	}
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	return &Dispatcher{
		proc:    proc,
		log:     log.WithComponent("dispatcher"),
		queue:   make(chan task, queueSize),
		workers: workers,
	}
}

// Start launches the worker pool. Task contexts derive from ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.baseCtx, d.cancel = context.WithCancel(ctx)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.log.Info("dispatcher started", "workers", d.workers, "queue_size", cap(d.queue))
}

// Submit queues a task without blocking.
func (d *Dispatcher) Submit(recordID, requestID string) error {
	// The lock is held through the send so Stop cannot close the queue
	// between the stopped check and the send.
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- task{recordID: recordID, requestID: requestID}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes intake, lets the workers drain the queued tasks, and waits
// for in-flight work. When ctx expires first, remaining task contexts are
// cancelled and Stop returns the ctx error.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	queued := len(d.queue)
	close(d.queue)
	d.mu.Unlock()

	d.log.Info("dispatcher stopping", "queued", queued)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancelBase()
		d.log.Info("dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.cancelBase()
		<-done
		d.log.Warn("dispatcher stop deadline hit, cancelled in-flight tasks")
		return ctx.Err()
	}
}

func (d *Dispatcher) cancelBase() {
	if d.cancel != nil {
		d.cancel()
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	log := d.log.With("worker", id)

	for t := range d.queue {
		ctx := logger.ContextWithRecordID(d.baseCtx, t.recordID)
		if t.requestID != "" {
			ctx = logger.ContextWithRequestID(ctx, t.requestID)
		}

		log.Info("processing record", "record_id", t.recordID)
		start := time.Now()

		if err := d.proc.ProcessRecord(ctx, t.recordID); err != nil {
			log.Error("record failed",
				"record_id", t.recordID,
				"error", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		} else {
			log.Info("record completed",
				"record_id", t.recordID,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
	}
}
