// Package notifier delivers low stock signals off the request path.
package notifier

import (
	"context"
	"log/slog"
	"sync"

	"mealorder/internal/core/application/events"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/ports"
)

const DefaultBufferSize = 64

// LowStockNotifier queues signals on a bounded channel drained by a single
// worker. Notify never blocks: a full buffer drops the signal with a warning.
type LowStockNotifier struct {
	publisher ports.EventPublisher
	logger    *slog.Logger

	mu      sync.Mutex
	queue   chan meal.LowStockSignal
	stopped bool
	done    chan struct{}
}

var _ ports.LowStockNotifier = (*LowStockNotifier)(nil)

func NewLowStockNotifier(publisher ports.EventPublisher, bufferSize int, logger *slog.Logger) *LowStockNotifier {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &LowStockNotifier{
		publisher: publisher,
		logger:    logger.With("component", "LowStockNotifier"),
		queue:     make(chan meal.LowStockSignal, bufferSize),
		done:      make(chan struct{}),
	}
}

func (n *LowStockNotifier) Notify(ctx context.Context, signal meal.LowStockSignal) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.stopped {
		n.logger.WarnContext(ctx, "notifier stopped, low stock signal dropped", "mealId", signal.MealID.String())
		return
	}

	select {
	case n.queue <- signal:
	default:
		n.logger.WarnContext(ctx, "notifier buffer full, low stock signal dropped",
			"mealId", signal.MealID.String(), "available", signal.Available)
	}
}

// Start launches the worker. The worker publishes with ctx and exits once
// Stop has drained the queue.
func (n *LowStockNotifier) Start(ctx context.Context) {
	go func() {
		defer close(n.done)
		for signal := range n.queue {
			n.publish(ctx, signal)
		}
	}()
}

// Stop refuses new signals and waits for queued ones to be published, or
// for ctx to expire.
func (n *LowStockNotifier) Stop(ctx context.Context) error {
	n.mu.Lock()
	if !n.stopped {
		n.stopped = true
		close(n.queue)
	}
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *LowStockNotifier) publish(ctx context.Context, signal meal.LowStockSignal) {
	msg, err := events.LowStockMessage(signal)
	if err != nil {
		n.logger.ErrorContext(ctx, "encode low stock event", "error", err)
		return
	}
	if err = n.publisher.Publish(ctx, msg); err != nil {
		n.logger.ErrorContext(ctx, "publish low stock event", "mealId", signal.MealID.String(), "error", err)
		return
	}
	n.logger.InfoContext(ctx, "low stock signalled",
		"mealId", signal.MealID.String(), "available", signal.Available, "threshold", signal.Threshold)
}
