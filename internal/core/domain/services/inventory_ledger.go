package services

import (
	"context"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
)

// MealStore is the slice of meal storage the inventory services need. The
// ForUpdate reads lock the returned rows until the surrounding unit of work ends;
// ListForUpdate locks in the order of ids and skips ids that do not exist.
type MealStore interface {
	GetForUpdate(ctx context.Context, id kernel.UUID) (*meal.Meal, error)
	ListForUpdate(ctx context.Context, ids []kernel.UUID) ([]*meal.Meal, error)
	Update(ctx context.Context, m *meal.Meal) error
}

type LedgerEntry struct {
	MealID     kernel.UUID
	Adjustment meal.Adjustment
	LowStock   *meal.LowStockSignal
}

// InventoryLedger performs single meal count changes as a locked read-modify-write.
type InventoryLedger struct{}

func NewInventoryLedger() InventoryLedger {
	return InventoryLedger{}
}

// Adjust locks the meal, applies op and writes it back. On failure nothing is
// written. The low stock signal is returned, never sent; delivering it after
// commit is the caller's job.
func (InventoryLedger) Adjust(
	ctx context.Context,
	store MealStore,
	mealID kernel.UUID,
	op meal.AdjustOperation,
	amount int,
) (LedgerEntry, error) {
	m, err := store.GetForUpdate(ctx, mealID)
	if err != nil {
		return LedgerEntry{}, err
	}

	adj, err := m.Adjust(op, amount)
	if err != nil {
		return LedgerEntry{}, err
	}

	if err = store.Update(ctx, m); err != nil {
		return LedgerEntry{}, err
	}

	entry := LedgerEntry{MealID: mealID, Adjustment: adj}
	if signal, low := m.LowStockSignal(); low {
		entry.LowStock = &signal
	}
	return entry, nil
}
