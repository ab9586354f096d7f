package services_test

import (
	"errors"
	"testing"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationService_Reserve(t *testing.T) {
	svc := services.NewReservationService()

	t.Run("should decrement every line and capture prices", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "Butter Chicken", "14.50", 10, 2)
		b := store.add(t, "Chana Masala", "11.00", 5, 1)

		res, err := svc.Reserve(t.Context(), store, []services.Line{{MealID: a, Quantity: 3}, {MealID: b, Quantity: 4}})

		require.NoError(t, err)
		require.Len(t, res.Reservations, 2)
		assert.Equal(t, "Butter Chicken", res.Reservations[0].MealName)
		assert.Equal(t, "14.50", res.Reservations[0].UnitPrice.String())
		assert.Equal(t, 7, res.Reservations[0].Remaining)
		assert.Equal(t, 7, store.count(a))
		assert.Equal(t, 1, store.count(b))
		require.Len(t, res.LowStock, 1)
		assert.True(t, res.LowStock[0].MealID.IsEqual(b))
		assert.Equal(t, 7, res.TotalQuantity())
	})

	t.Run("should merge duplicate meals", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "Butter Chicken", "14.50", 10, 0)

		res, err := svc.Reserve(t.Context(), store, []services.Line{{MealID: a, Quantity: 2}, {MealID: a, Quantity: 3}})

		require.NoError(t, err)
		require.Len(t, res.Reservations, 1)
		assert.Equal(t, 5, res.Reservations[0].Quantity)
		assert.Equal(t, 5, store.count(a))
	})

	t.Run("merged quantity can exceed availability", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "Butter Chicken", "14.50", 4, 0)

		_, err := svc.Reserve(t.Context(), store, []services.Line{{MealID: a, Quantity: 2}, {MealID: a, Quantity: 3}})

		require.ErrorIs(t, err, meal.ErrInsufficientInventory)
		assert.Equal(t, 4, store.count(a))
	})

	t.Run("should reserve nothing when any line is short and report all shortages", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "Butter Chicken", "14.50", 10, 0)
		b := store.add(t, "Chana Masala", "11.00", 1, 0)
		c := store.add(t, "Aloo Gobi", "9.00", 0, 0)

		_, err := svc.Reserve(t.Context(), store, []services.Line{
			{MealID: a, Quantity: 2},
			{MealID: b, Quantity: 2},
			{MealID: c, Quantity: 1},
		})

		var shortage *services.ShortageError
		require.ErrorAs(t, err, &shortage)
		require.Len(t, shortage.Shortages, 2)
		assert.Equal(t, "Chana Masala", shortage.Shortages[0].MealName)
		assert.Equal(t, 2, shortage.Shortages[0].Requested)
		assert.Equal(t, 1, shortage.Shortages[0].Available)
		assert.Equal(t, []kernel.UUID{b, c}, shortage.MealIDs())

		var first *meal.InsufficientInventoryError
		require.ErrorAs(t, err, &first)
		assert.Equal(t, "Chana Masala", first.MealName)

		assert.Equal(t, 10, store.count(a))
		assert.Zero(t, store.updates)
	})

	t.Run("inactive meal is unavailable", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "Butter Chicken", "14.50", 10, 0)
		store.deactivate(t, a)

		_, err := svc.Reserve(t.Context(), store, []services.Line{{MealID: a, Quantity: 1}})

		require.ErrorIs(t, err, meal.ErrMealUnavailable)
		assert.Equal(t, 10, store.count(a))
	})

	t.Run("missing meal is not found", func(t *testing.T) {
		_, err := svc.Reserve(t.Context(), newFakeMealStore(), []services.Line{{MealID: kernel.NewUUID(), Quantity: 1}})
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should lock rows in ascending id order", func(t *testing.T) {
		store := newFakeMealStore()
		ids := []kernel.UUID{
			store.add(t, "A", "1", 5, 0),
			store.add(t, "B", "1", 5, 0),
			store.add(t, "C", "1", 5, 0),
		}

		_, err := svc.Reserve(t.Context(), store, []services.Line{
			{MealID: ids[2], Quantity: 1}, {MealID: ids[0], Quantity: 1}, {MealID: ids[1], Quantity: 1},
		})

		require.NoError(t, err)
		require.Len(t, store.lockOrder, 3)
		for i := 1; i < len(store.lockOrder); i++ {
			assert.Negative(t, store.lockOrder[i-1].Compare(store.lockOrder[i]))
		}
	})

	t.Run("should report lines already applied when a write fails", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "A", "1", 10, 0)
		b := store.add(t, "B", "1", 10, 0)
		writeErr := errors.New("disk full")
		store.failUpdate, store.updateErr = 2, writeErr

		res, err := svc.Reserve(t.Context(), store, []services.Line{{MealID: a, Quantity: 2}, {MealID: b, Quantity: 3}})

		require.ErrorIs(t, err, writeErr)
		assert.Equal(t, []services.Line{{MealID: a, Quantity: 2}}, res.Lines())
		assert.Equal(t, 8, store.count(a))
		assert.Equal(t, 10, store.count(b))

		require.NoError(t, svc.Release(t.Context(), store, res.Lines()))
		assert.Equal(t, 10, store.count(a))
	})

	t.Run("validation errors", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "A", "1", 5, 0)

		_, err := svc.Reserve(t.Context(), store, nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = svc.Reserve(t.Context(), store, []services.Line{{MealID: a, Quantity: 0}})
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = svc.Reserve(t.Context(), store, []services.Line{{Quantity: 1}})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestReservationService_Release(t *testing.T) {
	svc := services.NewReservationService()

	t.Run("reserve then release restores the counts", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "A", "1", 5, 0)
		b := store.add(t, "B", "1", 7, 0)
		lines := []services.Line{{MealID: a, Quantity: 2}, {MealID: b, Quantity: 7}}

		res, err := svc.Reserve(t.Context(), store, lines)
		require.NoError(t, err)
		require.NoError(t, svc.Release(t.Context(), store, res.Lines()))

		assert.Equal(t, 5, store.count(a))
		assert.Equal(t, 7, store.count(b))
	})

	t.Run("inactive meals are restocked", func(t *testing.T) {
		store := newFakeMealStore()
		a := store.add(t, "A", "1", 0, 0)
		store.deactivate(t, a)

		require.NoError(t, svc.Release(t.Context(), store, []services.Line{{MealID: a, Quantity: 3}}))
		assert.Equal(t, 3, store.count(a))
	})
}
