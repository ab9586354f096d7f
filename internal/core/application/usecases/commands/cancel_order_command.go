package commands

import (
	"errors"
	"strings"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/guard"
)

const maxCancelReasonLength = 500

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return CancelOrderCommand{}, err
	}
	return cmd, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CancelOrderCommand) Reason() string       { return c.reason }

func (c *CancelOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CancelOrderCommand) setReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if len(reason) > maxCancelReasonLength {
		return errs.NewValueIsOutOfRangeError("reason length", len(reason), 0, maxCancelReasonLength)
	}
	c.reason = reason
	return nil
}
