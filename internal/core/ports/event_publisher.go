package ports

import (
	"context"

	"mealorder/internal/core/domain/model/meal"
)

const (
	TopicOrderCreated   = "order.created"
	TopicOrderCancelled = "order.cancelled"
	TopicMealLowStock   = "meal.low_stock"
)

type Message struct {
	Topic string
	Key   string
	Value []byte
}

// EventPublisher delivers messages to the broker. Publish returns after the
// broker acknowledged every message or with the first failure.
type EventPublisher interface {
	Publish(ctx context.Context, msgs ...Message) error
	Close() error
}

// LowStockNotifier takes low stock signals without blocking the caller.
// Delivery is best effort.
type LowStockNotifier interface {
	Notify(ctx context.Context, signal meal.LowStockSignal)
}
