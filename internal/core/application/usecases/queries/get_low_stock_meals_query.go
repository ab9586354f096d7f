package queries

import (
	"errors"

	"mealorder/internal/pkg/guard"
)

var ErrGetLowStockMealsQueryIsNotConstructed = errors.New(
	"GetLowStockMealsQuery must be created via NewGetLowStockMealsQuery constructor",
)

// GetLowStockMealsQuery lists active meals at or below their alert threshold.
type GetLowStockMealsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetLowStockMealsQuery() GetLowStockMealsQuery {
	return GetLowStockMealsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetLowStockMealsQuery) Validate() error {
	return q.guard.Validate(ErrGetLowStockMealsQueryIsNotConstructed)
}

type GetLowStockMealsQueryResponse struct {
	MealID            string
	Name              string
	AvailableCount    int
	LowStockThreshold int
}
