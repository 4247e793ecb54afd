package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	queuePkg "github.com/kmorrow11/arstory/pkg/queue"
	"github.com/kmorrow11/arstory/pkg/session"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	// Start miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	redisURL := "redis://" + mr.Addr()

	client, err := NewClient(redisURL, logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create queue client: %v", err)
	}

	return client, mr
}

func TestEventQueue_EnqueueAndDequeue(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	eq := NewEventQueue(client, logger)

	ctx := context.Background()
	sessionID := uuid.New()

	events := []session.Event{
		session.MarkerFound("marker1"),
		session.MarkerLost("marker1"),
		session.MarkerFound("marker2"),
	}
	for _, ev := range events {
		if err := eq.EnqueueRequest(ctx, queuePkg.NewRequest(sessionID, ev)); err != nil {
			t.Fatalf("Failed to enqueue: %v", err)
		}
	}

	depth, err := eq.Depth(ctx)
	if err != nil {
		t.Fatalf("Failed to get depth: %v", err)
	}
	if depth != len(events) {
		t.Errorf("Expected depth %d, got %d", len(events), depth)
	}

	// FIFO order
	for i, want := range events {
		req, err := eq.DequeueRequest(ctx)
		if err != nil {
			t.Fatalf("Failed to dequeue request %d: %v", i, err)
		}
		if req == nil {
			t.Fatalf("Expected request %d, got nil", i)
		}
		if req.SessionID != sessionID {
			t.Errorf("Request %d session mismatch: got %s", i, req.SessionID)
		}
		if req.Event != want {
			t.Errorf("Request %d event mismatch: expected %+v, got %+v", i, want, req.Event)
		}
	}

	// Empty queue returns nil, nil
	req, err := eq.DequeueRequest(ctx)
	if err != nil {
		t.Fatalf("Unexpected error on empty queue: %v", err)
	}
	if req != nil {
		t.Errorf("Expected nil request on empty queue, got %+v", req)
	}
}

func TestEventQueue_Clear(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	eq := NewEventQueue(client, logger)

	ctx := context.Background()
	sessionID := uuid.New()

	if err := eq.EnqueueRequest(ctx, queuePkg.NewRequest(sessionID, session.Click("portal"))); err != nil {
		t.Fatalf("Failed to enqueue: %v", err)
	}

	if err := eq.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}

	depth, _ := eq.Depth(ctx)
	if depth != 0 {
		t.Errorf("Expected empty queue after clear, got depth %d", depth)
	}
}
