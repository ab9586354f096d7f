package meal

import (
	"errors"
	"fmt"

	"mealorder/internal/core/domain/model/kernel"
)

var (
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrMealUnavailable       = errors.New("meal is unavailable")
)

// InsufficientInventoryError carries requested vs. available for one meal.
type InsufficientInventoryError struct {
	MealID    kernel.UUID
	MealName  string
	Requested int
	Available int
}

func NewInsufficientInventoryError(m *Meal, requested int) *InsufficientInventoryError {
	return &InsufficientInventoryError{
		MealID:    m.ID(),
		MealName:  m.Name(),
		Requested: requested,
		Available: m.AvailableCount(),
	}
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("%s: %s requested %d, available %d",
		ErrInsufficientInventory, e.MealName, e.Requested, e.Available)
}

func (e *InsufficientInventoryError) Unwrap() error {
	return ErrInsufficientInventory
}

type MealUnavailableError struct {
	MealID   kernel.UUID
	MealName string
}

func (e *MealUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMealUnavailable, e.MealName)
}

func (e *MealUnavailableError) Unwrap() error {
	return ErrMealUnavailable
}
