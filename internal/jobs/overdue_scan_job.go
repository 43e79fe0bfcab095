package jobs

import (
	"context"
	"time"

	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/ports"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultOverdueScanSchedule runs the scan every day at 06:00 UTC.
const DefaultOverdueScanSchedule = "0 0 6 * * *"

// OverdueFlagger is satisfied by commands.FlagOverdueMilestonesCommandHandler.
type OverdueFlagger interface {
	Handle(ctx context.Context, cmd commands.FlagOverdueMilestonesCommand) (int, error)
}

// FlaggedRecorder receives the number of milestones flagged by each run.
type FlaggedRecorder interface {
	AddOverdueFlagged(n int)
}

// OverdueScanJob flags past-due milestones on a cron schedule.
// Runs are idempotent: a milestone is flagged once per due date.
type OverdueScanJob struct {
	handler  OverdueFlagger
	clock    ports.Clock
	schedule string
	recorder FlaggedRecorder
	cron     *cron.Cron
	logger   *zap.Logger
	timeout  time.Duration
}

// NewOverdueScanJob creates the job. An empty schedule selects
// DefaultOverdueScanSchedule; recorder may be nil.
func NewOverdueScanJob(
	handler OverdueFlagger,
	clock ports.Clock,
	schedule string,
	recorder FlaggedRecorder,
	logger *zap.Logger,
) *OverdueScanJob {
	if schedule == "" {
		schedule = DefaultOverdueScanSchedule
	}
	return &OverdueScanJob{
		handler:  handler,
		clock:    clock,
		schedule: schedule,
		recorder: recorder,
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		logger:   logger.With(zap.String("component", "overdue_scan_job")),
		timeout:  5 * time.Minute,
	}
}

// RunOnce flags the milestones overdue as of today and returns their number.
func (j *OverdueScanJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewFlagOverdueMilestonesCommand(kernel.DateOf(j.clock.Now()))
	if err != nil {
		return 0, err
	}

	flagged, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if j.recorder != nil {
		j.recorder.AddOverdueFlagged(flagged)
	}
	return flagged, nil
}

// Start schedules the scan.
func (j *OverdueScanJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		flagged, err := j.RunOnce(ctx)
		if err != nil {
			j.logger.Error("overdue scan failed", zap.Error(err))
			return
		}
		j.logger.Info("overdue scan finished", zap.Int("flagged", flagged))
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("overdue scan job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running scan to finish.
func (j *OverdueScanJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("overdue scan job stopped")
}
