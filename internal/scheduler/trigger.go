package scheduler

import (
	"context"
	"fmt"

	"jobboard_backend/platform/logger"

	"github.com/robfig/cron/v3"
)

const (
	reasonStartup  = "startup"
	reasonSchedule = "schedule"
)

// RefreshTrigger enqueues a filter options refresh on a cron schedule and
// once at startup.
type RefreshTrigger struct {
	cron     *cron.Cron
	enqueuer RefreshEnqueuer
	log      *logger.Logger
}

func NewRefreshTrigger(spec string, enqueuer RefreshEnqueuer, log *logger.Logger) (*RefreshTrigger, error) {
	t := &RefreshTrigger{
		cron:     cron.New(),
		enqueuer: enqueuer,
		log:      log,
	}

	if _, err := t.cron.AddFunc(spec, func() { t.enqueue(context.Background(), reasonSchedule) }); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return t, nil
}

// Run blocks until ctx is done and waits for a running enqueue to finish.
func (t *RefreshTrigger) Run(ctx context.Context) {
	if t == nil {
		return
	}

	t.enqueue(ctx, reasonStartup)

	t.cron.Start()
	<-ctx.Done()
	<-t.cron.Stop().Done()
}

func (t *RefreshTrigger) enqueue(ctx context.Context, reason string) {
	if err := t.enqueuer.EnqueueFilterOptionsRefresh(ctx, reason); err != nil {
		t.log.Warn("failed to enqueue filter options refresh", "reason", reason, "error", err)
	}
}
