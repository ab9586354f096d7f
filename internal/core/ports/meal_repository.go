package ports

import (
	"context"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
)

// MealRepository stores meals and their inventory counts.
type MealRepository interface {
	Add(ctx context.Context, aggregate *meal.Meal) error

	// Update writes the mutable state of a meal: count, threshold and active flag.
	Update(ctx context.Context, aggregate *meal.Meal) error

	Get(ctx context.Context, id kernel.UUID) (*meal.Meal, error)

	// GetForUpdate reads a meal and locks its row until the unit of work ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*meal.Meal, error)

	// ListForUpdate locks the rows of ids in the given order. Unknown ids are
	// skipped; callers compare the result with what they asked for.
	ListForUpdate(ctx context.Context, ids []kernel.UUID) ([]*meal.Meal, error)

	// ListLowStock returns active meals whose count is at or below their threshold.
	ListLowStock(ctx context.Context) ([]*meal.Meal, error)
}
