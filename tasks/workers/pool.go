package workers

import (
	"context"
	"sync"
	"time"

	"task-registry/logger"
	"task-registry/tasks/queue"
)

// WorkerPool manages a collection of workers and their lifecycle
type WorkerPool struct {
	workers         []*Worker
	logger          *logger.Logger
	wg              sync.WaitGroup
	cancelFn        context.CancelFunc
	shutdownTimeout time.Duration
	mu              sync.Mutex // protects cancelFn and shutdownTimeout
}

func NewWorkerPool(workerCount int, queue queue.EventQueue, sink EventSink, logger *logger.Logger) *WorkerPool {
	if workerCount < 0 {
		workerCount = 0
	}

	workers := make([]*Worker, workerCount)
	for i := range workerCount {
		workers[i] = NewWorker(i+1, queue, sink, logger)
	}

	return &WorkerPool{
		workers:         workers,
		logger:          logger,
		shutdownTimeout: 30 * time.Second,
	}
}

// Start begins all workers in the pool. Starting a running pool is a no-op.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelFn != nil {
		p.logger.Warn("worker pool already running", map[string]any{
			"worker_count": len(p.workers),
		})
		return
	}

	workerCtx, cancel := context.WithCancel(ctx)
	p.cancelFn = cancel

	p.logger.Info("starting worker pool", map[string]any{
		"worker_count": len(p.workers),
	})

	for _, worker := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Start(workerCtx)
		}(worker)
	}

	p.logger.Info("worker pool started successfully", map[string]any{
		"active_workers": len(p.workers),
	})
}

// Stop cancels the workers and waits up to the shutdown timeout for them to return
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	cancelFn := p.cancelFn
	p.cancelFn = nil
	timeout := p.shutdownTimeout
	p.mu.Unlock()

	if cancelFn == nil {
		return
	}

	p.logger.Info("stopping worker pool", map[string]any{
		"worker_count": len(p.workers),
		"timeout":      timeout.String(),
	})

	cancelFn()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped gracefully", map[string]any{
			"shutdown_time": "within_timeout",
		})
	case <-time.After(timeout):
		p.logger.Warn("worker pool shutdown timed out", map[string]any{
			"timeout":         timeout.String(),
			"forced_shutdown": true,
		})
	}
}

// GetWorkerCount returns the number of workers in the pool
func (p *WorkerPool) GetWorkerCount() int {
	return len(p.workers)
}

// SetShutdownTimeout configures how long to wait for graceful shutdown
func (p *WorkerPool) SetShutdownTimeout(timeout time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdownTimeout = timeout
}
