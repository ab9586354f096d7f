package queries

import (
	"errors"
	"time"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order with its items.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

type GetOrderQueryResponse struct {
	ID                string
	OrderNumber       string
	CustomerID        string
	PostalCode        string
	ZoneID            string
	DeliveryDate      time.Time
	DeliveryWindow    string
	Notes             string
	Subtotal          string
	DeliveryFee       string
	Total             string
	Currency          string
	Status            string
	PaymentStatus     string
	NeedsInsulatedBag bool
	CancelReason      string
	CreatedAt         time.Time
	CancelledAt       *time.Time
	Items             []GetOrderItemResponse
}

type GetOrderItemResponse struct {
	MealID     string
	MealName   string
	Quantity   int
	UnitPrice  string
	TotalPrice string
}
