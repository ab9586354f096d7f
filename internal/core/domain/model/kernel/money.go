package kernel

import (
	"fmt"

	"mealorder/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Currency of every amount handled by the store.
const Currency = "CAD"

const moneyScale = 2

// Money is a non-negative amount rounded to cents.
type Money struct {
	amount decimal.Decimal
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, "unbounded")
	}
	return Money{amount: amount.Round(moneyScale)}, nil
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a decimal: %w", s, err))
	}
	return NewMoney(d)
}

// MustMoney is MoneyFromString for fixtures and defaults.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))).Round(moneyScale)}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two decimals, e.g. "5.99".
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}
