package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kmorrow11/arstory/internal/config"
	"github.com/kmorrow11/arstory/internal/logger"
	"github.com/kmorrow11/arstory/internal/services/queue"
	"github.com/kmorrow11/arstory/internal/storage"
	"github.com/kmorrow11/arstory/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting AR Story Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	// Initialize queue service
	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()

	eventQueue := queue.NewEventQueue(queueClient, log)
	log.Info("Queue service initialized successfully")

	// Initialize storage service
	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.SessionTTL, log)
	if err != nil {
		stdlog.Fatal(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage connection", "error", err)
		}
	}()

	// Wait for Redis on startup so the worker survives container ordering
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	// Create and start the worker. Locking and pub/sub share the queue
	// client's Redis connection pool.
	w := worker.New(eventQueue, store, queueClient.GetRedisClient(), log, cfg.WorkerID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for tracker events...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give the worker time to finish the current request
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
