package ports

import (
	"context"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/order"
)

// OrderRepository persists orders together with their items.
type OrderRepository interface {
	// Add inserts the order and all of its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes status, payment status and cancellation fields.
	Update(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate reads the order and locks it until the unit of work ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// SetNumber stores the order number. A number held by another order is
	// reported as ErrUniqueViolation.
	SetNumber(ctx context.Context, id kernel.UUID, number order.Number) error

	// Delete removes the order and its items. Deleting a missing order is not an error.
	Delete(ctx context.Context, id kernel.UUID) error
}
