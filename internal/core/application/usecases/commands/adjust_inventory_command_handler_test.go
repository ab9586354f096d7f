package commands_test

import (
	"log/slog"
	"testing"

	"mealorder/internal/core/application/usecases/commands"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdjustInventoryCommandHandler_Handle(t *testing.T) {
	setup := func(t *testing.T) (*fixture, commands.AdjustInventoryCommandHandler, kernel.UUID) {
		t.Helper()
		f := newFixture(t)
		id := f.addMeal(t, "Butter Chicken", "14.50", 10, 3)
		h := commands.NewAdjustInventoryCommandHandler(f.inventoryFactory(), services.NewInventoryLedger(),
			f.notifier, retry.NoDelay(1), slog.Default())
		return f, h, id
	}

	adjust := func(t *testing.T, id kernel.UUID, op meal.AdjustOperation, amount int) commands.AdjustInventoryCommand {
		t.Helper()
		cmd, err := commands.NewAdjustInventoryCommand(id, op, amount)
		require.NoError(t, err)
		return cmd
	}

	tests := []struct {
		name    string
		op      meal.AdjustOperation
		amount  int
		current int
	}{
		{name: "set replaces the count", op: meal.Set, amount: 25, current: 25},
		{name: "add increases the count", op: meal.Add, amount: 4, current: 14},
		{name: "subtract decreases the count", op: meal.Subtract, amount: 6, current: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, h, id := setup(t)

			entry, err := h.Handle(t.Context(), adjust(t, id, tt.op, tt.amount))

			require.NoError(t, err)
			assert.Equal(t, 10, entry.Adjustment.Previous)
			assert.Equal(t, tt.current, entry.Adjustment.Current)
			assert.Nil(t, entry.LowStock)
			assert.Equal(t, tt.current, f.count(t, id))
			f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		})
	}

	t.Run("subtract beyond the count is rejected and nothing changes", func(t *testing.T) {
		f, h, id := setup(t)

		_, err := h.Handle(t.Context(), adjust(t, id, meal.Subtract, 11))

		requireWorkflowError(t, err, commands.StepAdjusting, commands.KindBusinessRule)
		require.ErrorIs(t, err, meal.ErrInsufficientInventory)
		assert.Equal(t, 10, f.count(t, id))
	})

	t.Run("crossing the threshold notifies after commit", func(t *testing.T) {
		f, h, id := setup(t)
		f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(s meal.LowStockSignal) bool {
			return s.MealID.IsEqual(id) && s.Available == 2 && s.Threshold == 3
		})).Once()

		entry, err := h.Handle(t.Context(), adjust(t, id, meal.Set, 2))

		require.NoError(t, err)
		require.NotNil(t, entry.LowStock)
		f.notifier.AssertExpectations(t)
	})

	t.Run("unknown meal is not found", func(t *testing.T) {
		_, h, _ := setup(t)

		_, err := h.Handle(t.Context(), adjust(t, kernel.NewUUID(), meal.Add, 1))

		requireWorkflowError(t, err, commands.StepAdjusting, commands.KindBusinessRule)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestNewAdjustInventoryCommand(t *testing.T) {
	_, err := commands.NewAdjustInventoryCommand(kernel.NewUUID(), meal.Add, -1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewAdjustInventoryCommand(kernel.NewUUID(), meal.Set, meal.MaxCount+1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewAdjustInventoryCommand(kernel.NewUUID(), meal.UnknownOperation, 1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
