package jobs

import (
	"context"
	"log/slog"
	"time"

	"grocery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	DefaultExpirySchedule = "*/30 * * * * *"
	DefaultExpiryBatch    = 100
)

type expireAssignmentsHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireAssignmentsCommand) (int, error)
}

// AssignmentExpiryJob retires broadcasts nobody accepted within ttl.
type AssignmentExpiryJob struct {
	handler  expireAssignmentsHandler
	schedule string
	ttl      time.Duration
	batch    int
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

// NewAssignmentExpiryJob takes a six-field cron schedule (with seconds).
func NewAssignmentExpiryJob(
	handler expireAssignmentsHandler,
	schedule string,
	ttl time.Duration,
	logger *slog.Logger,
) *AssignmentExpiryJob {
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignmentExpiryJob{
		handler:  handler,
		schedule: schedule,
		ttl:      ttl,
		batch:    DefaultExpiryBatch,
		timeout:  10 * time.Second,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "assignment_expiry_job"),
		now:      time.Now,
	}
}

func (j *AssignmentExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment expiry job started",
		"schedule", j.schedule, "ttl", j.ttl.String())
	return nil
}

// Stop waits for a running pass to finish.
func (j *AssignmentExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Assignment expiry job stopped")
}

func (j *AssignmentExpiryJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Assignment expiry job failed", "error", err)
	}
}

// RunOnce expires one batch of broadcasts created before now minus ttl.
func (j *AssignmentExpiryJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewExpireAssignmentsCommand(j.now().Add(-j.ttl), j.batch)
	if err != nil {
		return 0, err
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		j.logger.InfoContext(ctx, "Expired unaccepted assignments", "count", expired)
	}
	return expired, nil
}
