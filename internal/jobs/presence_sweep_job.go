package jobs

import (
	"context"
	"log/slog"
	"time"

	"grocery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	DefaultPresenceSweepSchedule = "15,45 * * * * *"
	DefaultPresenceTTL           = 2 * time.Minute
)

type disconnectIdleHandler interface {
	Handle(ctx context.Context, cmd commands.DisconnectIdleCouriersCommand) (int, error)
}

// PresenceSweepJob fires the disconnect transition for couriers whose channel
// went silent for longer than ttl. Devices keep themselves online by
// reporting their position or re-identifying.
type PresenceSweepJob struct {
	handler  disconnectIdleHandler
	schedule string
	ttl      time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

// NewPresenceSweepJob creates a new PresenceSweepJob.
//
// Parameters:
//   - handler: runs the DisconnectIdleCouriersCommand
//   - schedule: six-field cron schedule; empty means DefaultPresenceSweepSchedule
//   - ttl: silence after which a courier counts as disconnected; zero means DefaultPresenceTTL
//   - logger: nil falls back to slog.Default()
//
// Example:
//
//	sweep := jobs.NewPresenceSweepJob(&disconnectIdle, cfg.PresenceSweepCron, cfg.PresenceTTL, logger)
//	jobManager.Add("presence sweep", sweep)
func NewPresenceSweepJob(
	handler disconnectIdleHandler,
	schedule string,
	ttl time.Duration,
	logger *slog.Logger,
) *PresenceSweepJob {
	if schedule == "" {
		schedule = DefaultPresenceSweepSchedule
	}
	if ttl <= 0 {
		ttl = DefaultPresenceTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PresenceSweepJob{
		handler:  handler,
		schedule: schedule,
		ttl:      ttl,
		timeout:  10 * time.Second,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "presence_sweep_job"),
		now:      time.Now,
	}
}

func (j *PresenceSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Presence sweep job started",
		"schedule", j.schedule, "ttl", j.ttl.String())
	return nil
}

func (j *PresenceSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Presence sweep job stopped")
}

func (j *PresenceSweepJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Presence sweep job failed", "error", err)
	}
}

// RunOnce disconnects couriers last seen before now minus ttl.
func (j *PresenceSweepJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewDisconnectIdleCouriersCommand(j.now().Add(-j.ttl))
	if err != nil {
		return 0, err
	}

	n, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "Disconnected silent couriers", "count", n)
	}
	return n, nil
}
