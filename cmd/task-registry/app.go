package main

import (
	"context"
	"fmt"

	"task-registry/api/server"
	"task-registry/config"
	"task-registry/logger"
	"task-registry/tasks/events"
	"task-registry/tasks/manager"
	"task-registry/tasks/queue"
	"task-registry/tasks/store"
	"task-registry/tasks/workers"
)

// eventPipeline is the optional queue, workers and history behind task events
type eventPipeline struct {
	queue    queue.EventQueue
	recorder *events.Recorder
	pool     *workers.WorkerPool
}

// newEventQueue builds the configured queue backend
func newEventQueue(cfg config.EventsConfig) (queue.EventQueue, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		q, err := queue.NewRedisEventQueue(cfg.RedisURL, cfg.QueueName)
		if err != nil {
			return nil, err
		}
		return q, nil
	case config.BackendMemory:
		return queue.NewMemoryEventQueue(cfg.BufferSize), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

func newEventPipeline(cfg *config.Config, lg *logger.Logger) (*eventPipeline, error) {
	q, err := newEventQueue(cfg.Events)
	if err != nil {
		return nil, fmt.Errorf("create event queue: %w", err)
	}

	recorder := events.NewRecorder(cfg.Events.HistorySize)
	pool := workers.NewWorkerPool(cfg.Events.WorkerCount, q, recorder, lg)
	pool.SetShutdownTimeout(cfg.ShutdownTimeout)

	return &eventPipeline{queue: q, recorder: recorder, pool: pool}, nil
}

// start runs the workers detached from ctx so they keep draining while the
// server finishes in-flight requests. close stops them.
func (p *eventPipeline) start(ctx context.Context) {
	p.pool.Start(context.WithoutCancel(ctx))
}

// close stops the workers before closing the queue they read from
func (p *eventPipeline) close(lg *logger.Logger) {
	p.pool.Stop()
	if err := p.queue.Close(); err != nil {
		lg.Error("failed to close event queue", map[string]any{
			"error": err,
		})
	}
}

// run wires the registry together and serves until ctx ends
func run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	taskStore := store.NewMemoryTaskStore()

	deps := server.Dependencies{
		Counter: taskStore,
		Config:  cfg,
		Logger:  lg,
	}

	var publisher queue.EventQueue
	if cfg.Events.Enabled {
		pipeline, err := newEventPipeline(cfg, lg)
		if err != nil {
			return err
		}
		defer pipeline.close(lg)

		pipeline.start(ctx)
		publisher = pipeline.queue
		deps.History = pipeline.recorder

		lg.Info("Task events enabled", map[string]any{
			"backend":      cfg.Events.Backend,
			"worker_count": pipeline.pool.GetWorkerCount(),
			"history_size": cfg.Events.HistorySize,
		})
	}

	deps.Manager = manager.NewManager(taskStore, publisher, lg)

	return server.New(deps).Start(ctx)
}
