package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/kmorrow11/arstory/pkg/session"
)

func setupTestStorage(t *testing.T, dataDir string) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewRedisStorage("redis://"+mr.Addr(), dataDir, time.Hour, logger)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestRedisStorage_SaveAndLoadSession(t *testing.T) {
	store, _ := setupTestStorage(t, t.TempDir())
	ctx := context.Background()

	s := session.NewSession("foo_experience.json")
	s.Progress = session.Chapter2Active
	s.Overlays["marker2"] = true

	if err := store.SaveSession(ctx, s.ID, s); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	loaded, err := store.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected session, got nil")
	}
	if loaded.ID != s.ID {
		t.Errorf("ID mismatch: expected %s, got %s", s.ID, loaded.ID)
	}
	if loaded.Progress != session.Chapter2Active {
		t.Errorf("Expected chapter_2_active, got %s", loaded.Progress)
	}
	if !loaded.Overlays["marker2"] {
		t.Error("Expected marker2 overlay preserved")
	}
}

func TestRedisStorage_LoadSessionNotFound(t *testing.T) {
	store, _ := setupTestStorage(t, t.TempDir())

	loaded, err := store.LoadSession(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Expected nil error for missing session, got %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil session for missing ID")
	}
}

func TestRedisStorage_DeleteSession(t *testing.T) {
	store, _ := setupTestStorage(t, t.TempDir())
	ctx := context.Background()

	s := session.NewSession("foo_experience.json")
	if err := store.SaveSession(ctx, s.ID, s); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	if err := store.DeleteSession(ctx, s.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	loaded, err := store.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loaded != nil {
		t.Error("Expected session deleted")
	}
}

func TestRedisStorage_SessionExpires(t *testing.T) {
	store, mr := setupTestStorage(t, t.TempDir())
	ctx := context.Background()

	s := session.NewSession("foo_experience.json")
	if err := store.SaveSession(ctx, s.ID, s); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	loaded, err := store.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loaded != nil {
		t.Error("Expected session expired after TTL")
	}
}
