package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"task-registry/config"
	"task-registry/logger"
	"task-registry/tasks/manager"
	"task-registry/tasks/queue"
	"task-registry/tasks/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	t.Setenv("VERSION", "3.2.1")

	root := NewRootCommand()
	var out bytes.Buffer
	root.cmd.SetOut(&out)
	root.cmd.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "task-registry 3.2.1\n", out.String())
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "LOUD")

	root := NewRootCommand()
	root.cmd.SetArgs([]string{"version"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootCommand_PortFlag(t *testing.T) {
	t.Setenv("PORT", "9000")

	root := NewRootCommand()
	root.cmd.SetArgs([]string{"version", "--port", "9100"})

	require.NoError(t, root.Execute())
	assert.Equal(t, 9100, root.config.ServerPort)
}

func TestNewEventQueue(t *testing.T) {
	q, err := newEventQueue(config.EventsConfig{Backend: config.BackendMemory, BufferSize: 4})
	require.NoError(t, err)
	assert.IsType(t, &queue.MemoryEventQueue{}, q)
	require.NoError(t, q.Close())

	_, err = newEventQueue(config.EventsConfig{Backend: "kafka"})
	assert.ErrorContains(t, err, "unknown events backend")

	_, err = newEventQueue(config.EventsConfig{Backend: config.BackendRedis, RedisURL: "invalid://url"})
	assert.ErrorContains(t, err, "invalid Redis URL")
}

func TestRun_ShutsDownWithEventsEnabled(t *testing.T) {
	cfg := &config.Config{
		ServerPort:      0,
		LogLevel:        "INFO",
		ShutdownTimeout: time.Second,
		Version:         "test",
		Events: config.EventsConfig{
			Enabled:     true,
			Backend:     config.BackendMemory,
			WorkerCount: 2,
			BufferSize:  8,
			HistorySize: 8,
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, logger.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestEventPipeline_RecordsMutationsDuringShutdown(t *testing.T) {
	cfg := &config.Config{
		ShutdownTimeout: time.Second,
		Events: config.EventsConfig{
			Enabled:     true,
			Backend:     config.BackendMemory,
			WorkerCount: 1,
			BufferSize:  1,
			HistorySize: 8,
		},
	}
	lg := logger.NewNop()

	pipeline, err := newEventPipeline(cfg, lg)
	require.NoError(t, err)

	signalCtx, stop := context.WithCancel(context.Background())
	pipeline.start(signalCtx)
	stop()

	m := manager.NewManager(store.NewMemoryTaskStore(), pipeline.queue, lg)

	reqCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, title := range []string{"Alpha", "Beta"} {
		start := time.Now()
		_, err := m.CreateTask(reqCtx, title, "drained after shutdown began")
		require.NoError(t, err)
		assert.Less(t, time.Since(start), time.Second)
	}

	require.Eventually(t, func() bool {
		return pipeline.recorder.Len() == 2
	}, 2*time.Second, 10*time.Millisecond)

	pipeline.close(lg)
}
