package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kmorrow11/arstory/internal/services/events"
	"github.com/kmorrow11/arstory/internal/services/queue"
	"github.com/kmorrow11/arstory/internal/storage"
	queuePkg "github.com/kmorrow11/arstory/pkg/queue"
	"github.com/kmorrow11/arstory/pkg/session"
)

const (
	dequeueTimeout = 5 * time.Second
	lockTTL        = 30 * time.Second
)

// Worker drains the tracker event queue and runs each event through the
// chapter-unlock reducer.
type Worker struct {
	id          string
	queue       *queue.EventQueue
	storage     storage.Storage
	broadcaster *events.Broadcaster
	redisClient *redis.Client
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(eventQueue *queue.EventQueue, store storage.Storage, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	broadcaster := events.NewBroadcaster(redisClient, log)

	return &Worker{
		id:          workerID,
		queue:       eventQueue,
		storage:     store,
		broadcaster: broadcaster,
		redisClient: redisClient,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextRequest pulls the next request from the queue and processes it
func (w *Worker) processNextRequest() error {
	req, err := w.queue.BlockingDequeueRequest(w.ctx, dequeueTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue request: %w", err)
	}

	if req == nil {
		// Queue is empty or timeout occurred - this is normal
		return nil
	}

	w.log.Info("Received request from queue",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"event_type", req.Event.Type,
		"session_id", req.SessionID.String(),
	)

	// Try to acquire session lock
	locked, err := w.acquireSessionLock(req.SessionID)
	if err != nil {
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !locked {
		// Another worker is processing this session.
		// Re-queue at the end and try the next request.
		w.log.Info("Session already locked, re-queueing request",
			"worker_id", w.id,
			"request_id", req.RequestID,
			"session_id", req.SessionID.String(),
		)
		if err := w.queue.EnqueueRequest(w.ctx, req); err != nil {
			return fmt.Errorf("failed to re-queue request: %w", err)
		}
		return nil
	}

	defer w.releaseSessionLock(req.SessionID)
	return w.processRequest(req)
}

// acquireSessionLock attempts to acquire a lock for a session.
// Returns true if the lock was acquired, false if already locked.
func (w *Worker) acquireSessionLock(sessionID uuid.UUID) (bool, error) {
	lockKey := fmt.Sprintf("session-lock:%s", sessionID.String())

	result, err := w.redisClient.SetNX(w.ctx, lockKey, w.id, lockTTL).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

// releaseSessionLock releases the lock for a session
func (w *Worker) releaseSessionLock(sessionID uuid.UUID) {
	lockKey := fmt.Sprintf("session-lock:%s", sessionID.String())

	// Only delete if we own the lock
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	if err := script.Run(w.ctx, w.redisClient, []string{lockKey}, w.id).Err(); err != nil {
		w.log.Error("Failed to release session lock", "error", err, "session_id", sessionID.String())
	}
}

// processRequest loads the session, applies the event through the
// reducer, persists the result and broadcasts the effects.
func (w *Worker) processRequest(req *queuePkg.Request) error {
	start := time.Now()

	if err := req.Event.Validate(); err != nil {
		// Malformed tracker input is dropped, not retried.
		w.log.Warn("Dropping invalid tracker event",
			"worker_id", w.id,
			"request_id", req.RequestID,
			"error", err,
		)
		return nil
	}

	sess, err := w.storage.LoadSession(w.ctx, req.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		// Session expired or never existed; tracker events for it are noise.
		w.log.Warn("Dropping event for unknown session",
			"worker_id", w.id,
			"request_id", req.RequestID,
			"session_id", req.SessionID.String(),
		)
		return nil
	}

	exp, err := w.storage.GetExperience(w.ctx, sess.Experience)
	if err != nil {
		return fmt.Errorf("failed to load experience %s: %w", sess.Experience, err)
	}

	next, effects := session.Apply(*sess, exp, req.Event)

	if err := w.storage.SaveSession(w.ctx, next.ID, &next); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if err := w.broadcaster.PublishEffects(w.ctx, next.ID, effects); err != nil {
		// Broadcasting is best-effort; the state change already happened.
		w.log.Error("Failed to publish effects", "error", err)
	}
	if err := w.broadcaster.PublishSessionUpdated(w.ctx, next.ID, next.Progress, next.EventCount); err != nil {
		w.log.Error("Failed to publish session update", "error", err)
	}

	w.log.Info("Tracker event processed",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"event_type", req.Event.Type,
		"progress", next.Progress.String(),
		"effects", len(effects),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
