package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"task-registry/tasks/events"

	"github.com/redis/go-redis/v9"
)

type RedisEventQueue struct {
	client    *redis.Client
	queueName string
}

var _ EventQueue = (*RedisEventQueue)(nil)

func NewRedisEventQueue(url, queueName string) (*RedisEventQueue, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisEventQueue{
		client:    client,
		queueName: queueName,
	}, nil
}

func (q *RedisEventQueue) Enqueue(ctx context.Context, ev *events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// left push + right pop keeps FIFO order
	return q.client.LPush(ctx, q.queueName, data).Err()
}

func (q *RedisEventQueue) Dequeue(ctx context.Context) (*events.Event, error) {
	// 0 timeout blocks until an item arrives or ctx ends
	result, err := q.client.BRPop(ctx, 0, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return nil, ErrQueueClosed
		}
		return nil, fmt.Errorf("failed to dequeue event: %w", err)
	}

	// BRPop returns [queueName, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPop result format: want %d elements, got %d", 2, len(result))
	}

	var ev events.Event
	if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &ev, nil
}

func (q *RedisEventQueue) GetQueueDepth(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}

func (q *RedisEventQueue) Close() error {
	return q.client.Close()
}
