package jobs

import (
	"context"
	"log/slog"
	"time"

	"mealorder/internal/core/application/usecases/queries"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const DefaultLowStockSweepSchedule = "0 */15 * * * *"

type lowStockLister interface {
	Handle(ctx context.Context, query queries.GetLowStockMealsQuery) ([]queries.GetLowStockMealsQueryResponse, error)
}

// LowStockSweepJob re-announces every meal still at or below its threshold,
// covering signals dropped by a full notifier buffer.
type LowStockSweepJob struct {
	lister   lowStockLister
	notifier ports.LowStockNotifier
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewLowStockSweepJob(
	lister lowStockLister,
	notifier ports.LowStockNotifier,
	schedule string,
	logger *slog.Logger,
) *LowStockSweepJob {
	if schedule == "" {
		schedule = DefaultLowStockSweepSchedule
	}
	return &LowStockSweepJob{
		lister:   lister,
		notifier: notifier,
		schedule: schedule,
		cron:     newCron(),
		logger:   logger.With("component", "low_stock_sweep_job"),
	}
}

func (j *LowStockSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Low stock sweep job started", "schedule", j.schedule)
	return nil
}

// Run performs a single sweep and returns how many signals were queued.
func (j *LowStockSweepJob) Run(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	meals, err := j.lister.Handle(ctx, queries.NewGetLowStockMealsQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Low stock sweep failed", "error", err)
		return 0
	}

	queued := 0
	for _, m := range meals {
		id, err := kernel.UUIDFromString(m.MealID)
		if err != nil {
			j.logger.WarnContext(ctx, "Skipping meal with malformed id", "mealId", m.MealID, "error", err)
			continue
		}
		j.notifier.Notify(ctx, meal.LowStockSignal{
			MealID:    id,
			MealName:  m.Name,
			Available: m.AvailableCount,
			Threshold: m.LowStockThreshold,
		})
		queued++
	}

	if queued > 0 {
		j.logger.InfoContext(ctx, "Low stock sweep finished", "meals", queued)
	}
	return queued
}

func (j *LowStockSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Low stock sweep job stopped")
}
