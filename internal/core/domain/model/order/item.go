package order

import (
	"errors"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem")

// Item is an order line. Name and unit price are copies taken when the
// inventory was reserved, so later catalog edits do not change the order.
type Item struct {
	id        kernel.UUID
	mealID    kernel.UUID
	mealName  string
	quantity  int
	unitPrice kernel.Money

	isConstructed bool
}

func NewItem(id, mealID kernel.UUID, mealName string, quantity int, unitPrice kernel.Money) (*Item, error) {
	item := &Item{
		mealName:      mealName,
		unitPrice:     unitPrice,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setMealID(mealID),
		item.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return item, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID          { return i.id }
func (i *Item) MealID() kernel.UUID      { return i.mealID }
func (i *Item) MealName() string         { return i.mealName }
func (i *Item) Quantity() int            { return i.quantity }
func (i *Item) UnitPrice() kernel.Money  { return i.unitPrice }
func (i *Item) TotalPrice() kernel.Money { return i.unitPrice.Times(i.quantity) }

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setMealID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("mealId", err)
	}
	i.mealID = id
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	i.quantity = quantity
	return nil
}
