package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	queueService "github.com/kmorrow11/arstory/internal/services/queue"
	queuePkg "github.com/kmorrow11/arstory/pkg/queue"
	"github.com/kmorrow11/arstory/pkg/session"
)

// Simulates the tracker feed of a real headset walking through an
// exhibit: duplicate sightings, marker flicker and out-of-order input.
// The worker must converge on the same final state regardless.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <session-id>\n", os.Args[0])
		os.Exit(1)
	}

	sessionID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatal("Invalid session ID:", err)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	client, err := queueService.NewClient(redisURL, logger)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer client.Close()

	eq := queueService.NewEventQueue(client, logger)
	ctx := context.Background()

	fmt.Println("Connected to Redis successfully!")

	// A deliberately messy walkthrough of a three-chapter experience
	script := []session.Event{
		session.Click("portal"),        // premature, no-op
		session.MarkerFound("marker3"), // out of order, no-op
		session.MarkerFound("marker1"), // unlocks chapter 1
		session.MarkerFound("marker1"), // duplicate sighting
		session.MarkerLost("marker1"),  // flicker
		session.MarkerFound("marker1"), // flicker
		session.MarkerFound("marker2"), // unlocks chapter 2
		session.MarkerLost("marker2"),  // walked away
		session.Click("portal"),        // opens the final chapter
		session.Click("portal"),        // duplicate tap
		session.MarkerFound("marker3"), // now shows its overlay
		session.Click("orb_a"),
		session.Click("orb_a"), // cycles the palette again
		session.Click("orb_b"), // completes the experience
	}

	for i, ev := range script {
		req := queuePkg.NewRequest(sessionID, ev)
		if err := eq.EnqueueRequest(ctx, req); err != nil {
			log.Fatal("Failed to enqueue request:", err)
		}
		fmt.Printf("✅ Enqueued %-12s %s%s (request %s)\n", ev.Type, ev.Marker, ev.Object, req.RequestID)
		// Small gap so the stream resembles a live tracker
		if i < len(script)-1 {
			time.Sleep(50 * time.Millisecond)
		}
	}

	depth, err := eq.Depth(ctx)
	if err != nil {
		log.Fatal("Failed to get queue depth:", err)
	}

	fmt.Printf("\n📊 Queue depth: %d requests\n", depth)
	fmt.Println("\n💡 Now start the worker to see it process these events!")
	fmt.Println("   Run: go run cmd/worker/main.go")
}
