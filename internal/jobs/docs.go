// Package jobs provides scheduled background tasks for the meal order service.
//
// Jobs use github.com/robfig/cron/v3 with second resolution. Runs of one job
// never overlap: a pass still in progress makes the next tick a no-op.
//
// # Available Jobs
//
// 1. OutboxRelayJob - every 2 seconds publishes pending outbox messages to the broker
// 2. LowStockSweepJob - every 15 minutes re-announces meals at or below their low stock threshold
//
// # Usage
//
//	jobManager := jobs.NewJobManager(relayHandler, lowStockHandler, notifier, jobs.Schedules{}, 100, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failures are logged and the work is retried on the next tick. Outbox
// delivery is at least once.
package jobs
