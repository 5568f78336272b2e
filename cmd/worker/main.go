package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/mcdsl/internal/config"
	"github.com/jwebster45206/mcdsl/internal/logger"
	"github.com/jwebster45206/mcdsl/internal/services/queue"
	"github.com/jwebster45206/mcdsl/internal/storage"
	"github.com/jwebster45206/mcdsl/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting mcdsl build worker",
		"environment", cfg.Environment,
		"queue", cfg.QueueKey,
		"builds", cfg.RedisKey)

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
	buildQueue := queueClient.Queue(cfg.QueueKey)

	sink, err := storage.NewRedisSink(cfg.RedisURL, cfg.RedisKey, log)
	if err != nil {
		log.Error("Failed to connect to build storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Error("Error closing build storage", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sink.Ping(ctx); err != nil {
		log.Error("Failed to connect to build storage", "error", err)
		os.Exit(1)
	}
	log.Info("Build storage initialized successfully")

	// Locks and events share the queue connection.
	w := worker.New(buildQueue, sink, queueClient.Redis(), cfg.PackFormat, log, cfg.WorkerID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for requests...", "worker_id", w.ID())

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give worker time to finish current request
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
