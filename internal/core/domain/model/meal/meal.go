package meal

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/pkg/errs"
)

var ErrMealIsNotConstructed = errors.New("Meal must be created via NewMeal or Restore")

// MaxCount is the largest available count a meal can hold.
const MaxCount = math.MaxInt32

type Meal struct {
	id                kernel.UUID
	name              string
	price             kernel.Money
	availableCount    int
	lowStockThreshold int
	isActive          bool

	isConstructed bool
}

// Adjustment describes a successful inventory change.
type Adjustment struct {
	Operation AdjustOperation
	Amount    int
	Previous  int
	Current   int
}

// LowStockSignal is emitted after a change leaves the count at or below the threshold.
type LowStockSignal struct {
	MealID    kernel.UUID
	MealName  string
	Available int
	Threshold int
}

func NewMeal(id kernel.UUID, name string, price kernel.Money, availableCount, lowStockThreshold int) (*Meal, error) {
	m := &Meal{
		price:         price,
		isActive:      true,
		isConstructed: true,
	}

	if err := errors.Join(
		m.setID(id),
		m.setName(name),
		m.setAvailableCount(availableCount),
		m.setLowStockThreshold(lowStockThreshold),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Restore rebuilds a meal from storage.
func Restore(
	id kernel.UUID,
	name string,
	price kernel.Money,
	availableCount, lowStockThreshold int,
	isActive bool,
) (*Meal, error) {
	m, err := NewMeal(id, name, price, availableCount, lowStockThreshold)
	if err != nil {
		return nil, err
	}
	m.isActive = isActive
	return m, nil
}

func (m *Meal) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMealIsNotConstructed
	}
	return nil
}

func (m *Meal) IsEqual(other *Meal) bool {
	return other != nil && m.id.IsEqual(other.id)
}

func (m *Meal) ID() kernel.UUID        { return m.id }
func (m *Meal) Name() string           { return m.name }
func (m *Meal) Price() kernel.Money    { return m.price }
func (m *Meal) AvailableCount() int    { return m.availableCount }
func (m *Meal) LowStockThreshold() int { return m.lowStockThreshold }
func (m *Meal) IsActive() bool         { return m.isActive }

func (m *Meal) Activate()   { m.isActive = true }
func (m *Meal) Deactivate() { m.isActive = false }

// Adjust applies op with a non-negative amount. A SUBTRACT beyond the
// available count or a result above MaxCount fails and leaves the meal
// untouched.
func (m *Meal) Adjust(op AdjustOperation, amount int) (Adjustment, error) {
	if err := op.Validate(); err != nil {
		return Adjustment{}, err
	}
	if amount < 0 {
		return Adjustment{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", amount))
	}

	previous := m.availableCount
	next := previous
	switch op {
	case Set:
		if amount > MaxCount {
			return Adjustment{}, errs.NewValueIsOutOfRangeError("amount", amount, 0, MaxCount)
		}
		next = amount
	case Add:
		if amount > MaxCount-previous {
			return Adjustment{}, errs.NewValueIsOutOfRangeError("amount", amount, 0, MaxCount-previous)
		}
		next = previous + amount
	case Subtract:
		if amount > previous {
			return Adjustment{}, NewInsufficientInventoryError(m, amount)
		}
		next = previous - amount
	}

	m.availableCount = next
	return Adjustment{Operation: op, Amount: amount, Previous: previous, Current: next}, nil
}

// CheckReservable reports why quantity cannot be taken from this meal, without mutating it.
func (m *Meal) CheckReservable(quantity int) error {
	if !m.isActive {
		return &MealUnavailableError{MealID: m.id, MealName: m.name}
	}
	if quantity > m.availableCount {
		return NewInsufficientInventoryError(m, quantity)
	}
	return nil
}

func (m *Meal) IsLowStock() bool {
	return m.availableCount <= m.lowStockThreshold
}

func (m *Meal) LowStockSignal() (LowStockSignal, bool) {
	if !m.IsLowStock() {
		return LowStockSignal{}, false
	}
	return LowStockSignal{
		MealID:    m.id,
		MealName:  m.name,
		Available: m.availableCount,
		Threshold: m.lowStockThreshold,
	}, true
}

func (m *Meal) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Meal) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	m.name = name
	return nil
}

func (m *Meal) setAvailableCount(count int) error {
	if count < 0 {
		return errs.NewValueIsInvalidErrorWithCause("availableCount", fmt.Errorf("%d is negative", count))
	}
	m.availableCount = count
	return nil
}

func (m *Meal) setLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return errs.NewValueIsInvalidErrorWithCause("lowStockThreshold", fmt.Errorf("%d is negative", threshold))
	}
	m.lowStockThreshold = threshold
	return nil
}
