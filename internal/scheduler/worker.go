package scheduler

import (
	"context"
	"fmt"

	"procurement_backend/platform/config"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// RfqExpirer expires the unanswered quote lines of a purchase request.
// Implemented by the requests service.
type RfqExpirer interface {
	ExpireUnansweredRfq(ctx context.Context, id uuid.UUID) error
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	expirer RfqExpirer
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, expirer RfqExpirer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		expirer: expirer,
		log:     log,
	}

	mux.HandleFunc(TaskRfqDeadline, w.handleRfqDeadline)

	return w, nil
}

func (w *Worker) handleRfqDeadline(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRfqDeadlinePayload(task)
	if err != nil {
		return err
	}

	requestID, err := uuid.Parse(payload.PurchaseRequestID)
	if err != nil {
		return err
	}

	w.log.Info("rfq deadline reached",
		"requestId", requestID, "requestNumber", payload.RequestNumber)
	return w.expirer.ExpireUnansweredRfq(ctx, requestID)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
