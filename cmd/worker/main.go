// Package main is the entry point for the barcode service maintenance
// worker. It periodically purges expired idempotency keys so the table
// does not grow without bound.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/config"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/logger"
)

const cleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting maintenance worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.ConnectionString()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	store := postgres.NewIdempotencyStore(pool, txManager, cfg.Idempotency.TTL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		runCleanup(ctx, log, store)

		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCleanup(ctx, log, store)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	<-done
	log.Info("worker stopped")
}

func runCleanup(ctx context.Context, log *logger.Logger, store *postgres.IdempotencyStore) {
	removed, err := store.CleanupExpired(ctx)
	if err != nil {
		log.Errorw("idempotency cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		log.Infow("idempotency keys purged", "count", removed)
	}
}
