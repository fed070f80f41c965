package scheduler

import (
	"context"
	"fmt"

	"jobboard_backend/platform/config"
	"jobboard_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// FilterOptionsRefresher rebuilds the cached filter options payload.
type FilterOptionsRefresher interface {
	RefreshFilterOptions(ctx context.Context) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	refresher FilterOptionsRefresher
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, refresher FilterOptionsRefresher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(refresher, log)
	w.server = server
	return w, nil
}

func newWorker(refresher FilterOptionsRefresher, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:       mux,
		refresher: refresher,
		log:       log,
	}

	mux.HandleFunc(TaskFilterOptionsRefresh, w.handleFilterOptionsRefresh)
	return w
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

func (w *Worker) handleFilterOptionsRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFilterOptionsRefreshPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := w.refresher.RefreshFilterOptions(ctx); err != nil {
		w.log.Warn("filter options refresh failed", "reason", payload.Reason, "error", err)
		return err
	}

	w.log.Info("filter options refreshed", "reason", payload.Reason)
	return nil
}
