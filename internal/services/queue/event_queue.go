package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kmorrow11/arstory/pkg/queue"
)

// trackerQueueKey is the global list tracker devices push into.
const trackerQueueKey = "tracker-events"

// EventQueue buffers raw tracker events between ingest and the workers
// that run them through the reducer.
type EventQueue struct {
	client *Client
	logger *slog.Logger
}

func NewEventQueue(client *Client, logger *slog.Logger) *EventQueue {
	return &EventQueue{
		client: client,
		logger: logger,
	}
}

// EnqueueRequest adds a tracker event request to the global queue
func (eq *EventQueue) EnqueueRequest(ctx context.Context, req *queue.Request) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	if err := eq.client.rdb.RPush(ctx, trackerQueueKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}
	return nil
}

// DequeueRequest removes and returns the next request from the global queue.
// Returns nil if the queue is empty.
func (eq *EventQueue) DequeueRequest(ctx context.Context) (*queue.Request, error) {
	result, err := eq.client.rdb.LPop(ctx, trackerQueueKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	req, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	return req, nil
}

// BlockingDequeueRequest blocks until a request is available or the
// timeout elapses, then returns it. A nil request with nil error means
// the wait timed out.
func (eq *EventQueue) BlockingDequeueRequest(ctx context.Context, timeout time.Duration) (*queue.Request, error) {
	result, err := eq.client.rdb.BLPop(ctx, timeout, trackerQueueKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Timed out waiting
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}

	req, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	return req, nil
}

// Depth returns the number of requests in the global queue
func (eq *EventQueue) Depth(ctx context.Context) (int, error) {
	count, err := eq.client.rdb.LLen(ctx, trackerQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// Clear removes all pending requests. Used by tests and the simulator.
func (eq *EventQueue) Clear(ctx context.Context) error {
	if err := eq.client.rdb.Del(ctx, trackerQueueKey).Err(); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}
