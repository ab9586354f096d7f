package jobs

import (
	"context"
	"log/slog"
	"time"

	"mealorder/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const DefaultOutboxRelaySchedule = "*/2 * * * * *"

type outboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob publishes pending outbox messages. A failed tick leaves the
// messages pending for the next one.
type OutboxRelayJob struct {
	handler   outboxRelayer
	batchSize int
	schedule  string
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(handler outboxRelayer, schedule string, batchSize int, logger *slog.Logger) *OutboxRelayJob {
	if schedule == "" {
		schedule = DefaultOutboxRelaySchedule
	}
	if batchSize <= 0 {
		batchSize = commands.DefaultRelayBatchSize
	}
	return &OutboxRelayJob{
		handler:   handler,
		batchSize: batchSize,
		schedule:  schedule,
		timeout:   30 * time.Second,
		cron:      newCron(),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Run performs a single relay pass.
func (j *OutboxRelayJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay job misconfigured", "error", err)
		return
	}

	published, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay job failed", "error", err)
		return
	}
	if published > 0 {
		j.logger.InfoContext(ctx, "Outbox messages published", "count", published)
	}
}

func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Outbox relay job stopped")
}

// newCron runs on second resolution and never overlaps runs of one job.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}
