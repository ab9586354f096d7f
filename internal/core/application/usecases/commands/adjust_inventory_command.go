package commands

import (
	"errors"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/guard"
)

var ErrAdjustInventoryCommandIsNotConstructed = errors.New(
	"AdjustInventoryCommand must be created via NewAdjustInventoryCommand constructor",
)

// AdjustInventoryCommand changes one meal's available count.
type AdjustInventoryCommand struct { //nolint:recvcheck //using for validation
	mealID    kernel.UUID
	operation meal.AdjustOperation
	amount    int

	guard guard.ConstructorGuard
}

func NewAdjustInventoryCommand(mealID kernel.UUID, operation meal.AdjustOperation, amount int) (AdjustInventoryCommand, error) {
	cmd := AdjustInventoryCommand{guard: guard.NewConstructorGuard()}

	var amountErr error
	if amount < 0 || amount > meal.MaxCount {
		amountErr = errs.NewValueIsOutOfRangeError("amount", amount, 0, meal.MaxCount)
	}

	if err := errors.Join(
		mealID.Validate(),
		operation.Validate(),
		amountErr,
	); err != nil {
		return AdjustInventoryCommand{}, err
	}

	cmd.mealID = mealID
	cmd.operation = operation
	cmd.amount = amount
	return cmd, nil
}

func (c AdjustInventoryCommand) Validate() error {
	return c.guard.Validate(ErrAdjustInventoryCommandIsNotConstructed)
}

func (c AdjustInventoryCommand) MealID() kernel.UUID             { return c.mealID }
func (c AdjustInventoryCommand) Operation() meal.AdjustOperation { return c.operation }
func (c AdjustInventoryCommand) Amount() int                     { return c.amount }
