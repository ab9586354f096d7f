package jobs

import (
	"fmt"
	"log/slog"

	"mealorder/internal/core/ports"
)

type Schedules struct {
	OutboxRelay   string
	LowStockSweep string
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	outboxRelayJob   *OutboxRelayJob
	lowStockSweepJob *LowStockSweepJob
}

func NewJobManager(
	relayHandler outboxRelayer,
	lowStockLister lowStockLister,
	notifier ports.LowStockNotifier,
	schedules Schedules,
	relayBatchSize int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxRelayJob:   NewOutboxRelayJob(relayHandler, schedules.OutboxRelay, relayBatchSize, logger),
		lowStockSweepJob: NewLowStockSweepJob(lowStockLister, notifier, schedules.LowStockSweep, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.lowStockSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start low stock sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running passes to finish.
func (jm *JobManager) StopAll() {
	jm.lowStockSweepJob.Stop()
	jm.outboxRelayJob.Stop()
}
