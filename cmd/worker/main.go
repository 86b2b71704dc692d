package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogrepo "procurement_backend/internal/catalog/repository"
	catalogservice "procurement_backend/internal/catalog/service"
	"procurement_backend/internal/events"
	reqrepo "procurement_backend/internal/requests/repository"
	reqservice "procurement_backend/internal/requests/service"
	"procurement_backend/internal/scheduler"
	"procurement_backend/internal/sequence"
	"procurement_backend/platform/config"
	"procurement_backend/platform/db"
	"procurement_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	// Worker-side request wiring (no HTTP handlers required). The worker only
	// drives RFQ deadline expiry, but the service needs its full dependency set.
	catalogSvc := catalogservice.New(catalogrepo.New(pool), log)
	requestsSvc := reqservice.New(
		reqrepo.New(pool),
		db.NewTxManager(pool),
		sequence.New(pool),
		catalogSvc,
		eventBus,
		log,
		cfg.GetRfqDefaultResponseWindow(),
	)

	worker, err := scheduler.NewWorker(cfg, requestsSvc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
