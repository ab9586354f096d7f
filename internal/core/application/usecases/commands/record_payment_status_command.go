package commands

import (
	"errors"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/pkg/guard"
)

var ErrRecordPaymentStatusCommandIsNotConstructed = errors.New(
	"RecordPaymentStatusCommand must be created via NewRecordPaymentStatusCommand constructor",
)

// RecordPaymentStatusCommand carries the payment collaborator's outcome.
type RecordPaymentStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.PaymentStatus

	guard guard.ConstructorGuard
}

func NewRecordPaymentStatusCommand(orderID kernel.UUID, status order.PaymentStatus) (RecordPaymentStatusCommand, error) {
	cmd := RecordPaymentStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		orderID.Validate(),
		status.Validate(),
	); err != nil {
		return RecordPaymentStatusCommand{}, err
	}

	cmd.orderID = orderID
	cmd.status = status
	return cmd, nil
}

func (c RecordPaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentStatusCommandIsNotConstructed)
}

func (c RecordPaymentStatusCommand) OrderID() kernel.UUID        { return c.orderID }
func (c RecordPaymentStatusCommand) Status() order.PaymentStatus { return c.status }
