package order_test

import (
	"testing"
	"time"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(t *testing.T, quantity int, price string) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Dal Makhani", quantity, kernel.MustMoney(price))
	require.NoError(t, err)
	return item
}

func newDraft(t *testing.T, items ...*order.Item) order.Draft {
	t.Helper()
	return order.Draft{
		ID:             kernel.NewUUID(),
		CustomerID:     "customer-1",
		PostalCode:     "V6B1A1",
		ZoneID:         kernel.NewUUID(),
		DeliveryDate:   time.Date(2024, time.January, 21, 15, 30, 0, 0, time.UTC),
		DeliveryWindow: "Sunday 16:00-20:00",
		Items:          items,
		DeliveryFee:    kernel.MustMoney("5.99"),
		CreatedAt:      time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("should derive totals and flags", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 2, "12.50"), newItem(t, 3, "10.00")))

		require.NoError(t, err)
		assert.Equal(t, "55.00", o.Subtotal().String())
		assert.Equal(t, "60.99", o.Total().String())
		assert.Equal(t, 5, o.TotalQuantity())
		assert.True(t, o.NeedsInsulatedBag())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.Unpaid, o.PaymentStatus())
		assert.True(t, o.Number().IsZero())
	})

	t.Run("should keep only the calendar date", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 1, "1.00")))

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 21, 0, 0, 0, 0, time.UTC), o.DeliveryDate())
	})

	t.Run("four items do not need an insulated bag", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 4, "1.00")))

		require.NoError(t, err)
		assert.False(t, o.NeedsInsulatedBag())
	})

	t.Run("should require items, postal code and date", func(t *testing.T) {
		d := newDraft(t)
		d.PostalCode = ""
		d.DeliveryDate = time.Time{}

		_, err := order.NewOrder(d)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("items reject non positive quantity", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "x", 0, kernel.MustMoney("1"))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestOrder_AssignNumber(t *testing.T) {
	o, err := order.NewOrder(newDraft(t, newItem(t, 1, "1.00")))
	require.NoError(t, err)

	n, err := order.NewNumber("FB", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 1, 3)
	require.NoError(t, err)

	require.NoError(t, o.AssignNumber(n))
	assert.Equal(t, "FB20240115001", o.Number().String())
	require.ErrorIs(t, o.AssignNumber(n), order.ErrNumberAlreadyAssigned)
	require.ErrorIs(t, o.AssignNumber(order.Number{}), errs.ErrValueIsRequired)
}

func TestOrder_Cancel(t *testing.T) {
	at := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)

	t.Run("pending order can be cancelled", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 1, "1.00")))
		require.NoError(t, err)

		require.NoError(t, o.Cancel(" changed my mind ", at))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "changed my mind", o.CancelReason())
		require.NotNil(t, o.CancelledAt())
		assert.Equal(t, at, *o.CancelledAt())
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 1, "1.00")))
		require.NoError(t, err)
		require.NoError(t, o.Cancel("", at))

		require.ErrorIs(t, o.Cancel("", at), order.ErrOrderCannotBeCancelled)
	})

	t.Run("preparing order cannot be cancelled", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 1, "1.00")))
		require.NoError(t, err)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.StartPreparing())

		err = o.Cancel("", at)

		require.ErrorIs(t, err, order.ErrOrderCannotBeCancelled)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Preparing, o.Status())
	})
}

func TestOrder_MarkPayment(t *testing.T) {
	t.Run("paid confirms a pending order", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 1, "1.00")))
		require.NoError(t, err)

		require.NoError(t, o.MarkPayment(order.Paid))

		assert.Equal(t, order.Confirmed, o.Status())
		assert.Equal(t, order.Paid, o.PaymentStatus())
	})

	t.Run("failed payment keeps the order pending", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 1, "1.00")))
		require.NoError(t, err)

		require.NoError(t, o.MarkPayment(order.PaymentFailed))

		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("cancelled order only accepts refunds", func(t *testing.T) {
		o, err := order.NewOrder(newDraft(t, newItem(t, 1, "1.00")))
		require.NoError(t, err)
		require.NoError(t, o.Cancel("", time.Now()))

		require.ErrorIs(t, o.MarkPayment(order.Paid), order.ErrPaymentNotAllowed)
		require.NoError(t, o.MarkPayment(order.Refunded))
	})
}

func TestRestore(t *testing.T) {
	cancelledAt := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	s := order.Snapshot{
		Draft:         newDraft(t, newItem(t, 2, "3.00")),
		Number:        "FB20240115012",
		Status:        order.Cancelled,
		PaymentStatus: order.Refunded,
		CancelReason:  "duplicate",
		CancelledAt:   &cancelledAt,
	}

	o, err := order.Restore(s)

	require.NoError(t, err)
	assert.Equal(t, "FB20240115012", o.Number().String())
	assert.Equal(t, int64(12), o.Number().Sequence())
	assert.Equal(t, order.Cancelled, o.Status())
	assert.Equal(t, "duplicate", o.CancelReason())

	s.Status = order.Unknown
	_, err = order.Restore(s)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestOrder_Snapshot(t *testing.T) {
	o, err := order.NewOrder(newDraft(t, newItem(t, 2, "3.00"), newItem(t, 1, "4.25")))
	require.NoError(t, err)
	n, err := order.NewNumber("FB", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 7, 3)
	require.NoError(t, err)
	require.NoError(t, o.AssignNumber(n))
	require.NoError(t, o.Cancel("changed my mind", time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)))

	restored, err := order.Restore(o.Snapshot())

	require.NoError(t, err)
	assert.Equal(t, "FB20240115007", restored.Number().String())
	assert.Equal(t, o.Total(), restored.Total())
	assert.Equal(t, o.Status(), restored.Status())
	assert.Equal(t, o.CancelledAt(), restored.CancelledAt())
	assert.Len(t, restored.Items(), 2)
}
