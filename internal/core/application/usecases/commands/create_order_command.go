package commands

import (
	"errors"
	"strings"
	"time"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand is a customer's request for meals on a delivery date.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "cust-42", deliveryDate, "V6B 1A1",
//	    []services.Line{{MealID: mealID, Quantity: 2}}, "leave at the door")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   string
	deliveryDate time.Time
	postalCode   string
	lines        []services.Line
	notes        string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand checks the request shape. Stock, zone and schedule
// are checked by the handler.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID string,
	deliveryDate time.Time,
	postalCode string,
	lines []services.Line,
	notes string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerID: strings.TrimSpace(customerID),
		notes:      strings.TrimSpace(notes),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDeliveryDate(deliveryDate),
		cmd.setPostalCode(postalCode),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c CreateOrderCommand) CustomerID() string      { return c.customerID }
func (c CreateOrderCommand) DeliveryDate() time.Time { return c.deliveryDate }
func (c CreateOrderCommand) PostalCode() string      { return c.postalCode }
func (c CreateOrderCommand) Notes() string           { return c.notes }

func (c CreateOrderCommand) Lines() []services.Line {
	out := make([]services.Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}
	c.deliveryDate = date
	return nil
}

func (c *CreateOrderCommand) setPostalCode(postalCode string) error {
	if strings.TrimSpace(postalCode) == "" {
		return errs.NewValueIsRequiredError("postalCode")
	}
	c.postalCode = postalCode
	return nil
}

func (c *CreateOrderCommand) setLines(lines []services.Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	validated := make([]services.Line, 0, len(lines))
	for _, l := range lines {
		if err := l.MealID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("mealId", err)
		}
		if l.Quantity <= 0 {
			return errs.NewValueIsOutOfRangeError("quantity", l.Quantity, 1, "unbounded")
		}
		validated = append(validated, l)
	}
	c.lines = validated
	return nil
}
