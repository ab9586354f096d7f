package kernel_test

import (
	"testing"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	t.Run("should parse and render with two decimals", func(t *testing.T) {
		m, err := kernel.MoneyFromString("5.9")

		require.NoError(t, err)
		assert.Equal(t, "5.90", m.String())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromInt(-1))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject non decimal strings", func(t *testing.T) {
		_, err := kernel.MoneyFromString("five")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should multiply and add without float drift", func(t *testing.T) {
		price := kernel.MustMoney("12.99")

		total := price.Times(3).Add(kernel.MustMoney("0.03"))

		assert.Equal(t, "39.00", total.String())
		assert.True(t, total.GreaterThanOrEqual(kernel.MustMoney("39")))
		assert.True(t, total.Equal(kernel.MustMoney("39.00")))
	})

	t.Run("zero money", func(t *testing.T) {
		assert.True(t, kernel.ZeroMoney().IsZero())
		assert.Equal(t, "0.00", kernel.ZeroMoney().String())
	})
}
