package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/pkg/errs"
)

// InsulatedBagQuantity is the total quantity from which an insulated bag is packed.
const InsulatedBagQuantity = 5

var (
	ErrOrderIsNotConstructed  = errors.New("Order must be created via NewOrder or Restore")
	ErrNumberAlreadyAssigned  = errors.New("order number is already assigned")
	ErrPaymentNotAllowed      = errors.New("payment status change is not allowed")
	ErrOrderCannotBeCancelled = errors.New("order cannot be cancelled")
)

type Order struct {
	id             kernel.UUID
	number         Number
	customerID     string
	postalCode     string
	zoneID         kernel.UUID
	deliveryDate   time.Time
	deliveryWindow string
	notes          string

	items       []*Item
	subtotal    kernel.Money
	deliveryFee kernel.Money
	total       kernel.Money

	status            Status
	paymentStatus     PaymentStatus
	needsInsulatedBag bool
	cancelReason      string

	createdAt   time.Time
	cancelledAt *time.Time

	isConstructed bool
}

// Draft is the input for a new order. DeliveryDate is a calendar date; only
// its year, month and day are kept.
type Draft struct {
	ID             kernel.UUID
	CustomerID     string
	PostalCode     string
	ZoneID         kernel.UUID
	DeliveryDate   time.Time
	DeliveryWindow string
	Notes          string
	Items          []*Item
	DeliveryFee    kernel.Money
	CreatedAt      time.Time
}

// Snapshot is the full persisted state of an order.
type Snapshot struct {
	Draft
	Number        string
	Status        Status
	PaymentStatus PaymentStatus
	CancelReason  string
	CancelledAt   *time.Time
}

func NewOrder(d Draft) (*Order, error) {
	o := &Order{
		customerID:     d.CustomerID,
		zoneID:         d.ZoneID,
		deliveryWindow: d.DeliveryWindow,
		notes:          d.Notes,
		deliveryFee:    d.DeliveryFee,
		createdAt:      d.CreatedAt,
		status:         Pending,
		paymentStatus:  Unpaid,
		isConstructed:  true,
	}

	if err := errors.Join(
		o.setID(d.ID),
		o.setPostalCode(d.PostalCode),
		o.setDeliveryDate(d.DeliveryDate),
		o.setItems(d.Items),
	); err != nil {
		return nil, err
	}

	o.recalculate()
	return o, nil
}

// Restore rebuilds an order from storage without replaying transitions.
func Restore(s Snapshot) (*Order, error) {
	o, err := NewOrder(s.Draft)
	if err != nil {
		return nil, err
	}

	if err = errors.Join(s.Status.Validate(), s.PaymentStatus.Validate()); err != nil {
		return nil, err
	}

	if s.Number != "" {
		n, parseErr := ParseNumber(s.Number)
		if parseErr != nil {
			return nil, parseErr
		}
		o.number = n
	}

	o.status = s.Status
	o.paymentStatus = s.PaymentStatus
	o.cancelReason = s.CancelReason
	o.cancelledAt = s.CancelledAt
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) Number() Number               { return o.number }
func (o *Order) CustomerID() string           { return o.customerID }
func (o *Order) PostalCode() string           { return o.postalCode }
func (o *Order) ZoneID() kernel.UUID          { return o.zoneID }
func (o *Order) DeliveryDate() time.Time      { return o.deliveryDate }
func (o *Order) DeliveryWindow() string       { return o.deliveryWindow }
func (o *Order) Notes() string                { return o.notes }
func (o *Order) Subtotal() kernel.Money       { return o.subtotal }
func (o *Order) DeliveryFee() kernel.Money    { return o.deliveryFee }
func (o *Order) Total() kernel.Money          { return o.total }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) NeedsInsulatedBag() bool      { return o.needsInsulatedBag }
func (o *Order) CancelReason() string         { return o.cancelReason }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) CancelledAt() *time.Time      { return o.cancelledAt }

func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

// Snapshot returns the state to persist. Restore(o.Snapshot()) rebuilds an
// equal order.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		Draft: Draft{
			ID:             o.id,
			CustomerID:     o.customerID,
			PostalCode:     o.postalCode,
			ZoneID:         o.zoneID,
			DeliveryDate:   o.deliveryDate,
			DeliveryWindow: o.deliveryWindow,
			Notes:          o.notes,
			Items:          o.Items(),
			DeliveryFee:    o.deliveryFee,
			CreatedAt:      o.createdAt,
		},
		Status:        o.status,
		PaymentStatus: o.paymentStatus,
		CancelReason:  o.cancelReason,
	}
	if !o.number.IsZero() {
		s.Number = o.number.String()
	}
	if o.cancelledAt != nil {
		at := *o.cancelledAt
		s.CancelledAt = &at
	}
	return s
}

func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.items {
		total += item.Quantity()
	}
	return total
}

// AssignNumber sets the order number. It can only happen once.
func (o *Order) AssignNumber(n Number) error {
	if n.IsZero() {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	if !o.number.IsZero() {
		return ErrNumberAlreadyAssigned
	}
	o.number = n
	return nil
}

func (o *Order) Confirm() error {
	next, err := o.status.Confirm()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) StartPreparing() error {
	next, err := o.status.StartPreparing()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) Dispatch() error {
	next, err := o.status.Dispatch()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) Deliver() error {
	next, err := o.status.Deliver()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

// Cancel moves a PENDING or CONFIRMED order to CANCELLED. Releasing the
// reserved inventory is the caller's job.
func (o *Order) Cancel(reason string, at time.Time) error {
	next, err := o.status.Cancel()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderCannotBeCancelled, err)
	}
	o.status = next
	o.cancelReason = strings.TrimSpace(reason)
	o.cancelledAt = &at
	return nil
}

// MarkPayment records the payment outcome. PAID confirms a pending order.
// A cancelled order only accepts REFUNDED.
func (o *Order) MarkPayment(status PaymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if o.status == Cancelled && status != Refunded {
		return fmt.Errorf("%w: order is %s, got %s", ErrPaymentNotAllowed, o.status, status)
	}

	o.paymentStatus = status
	if status == Paid && o.status == Pending {
		o.status = Confirmed
	}
	return nil
}

func (o *Order) recalculate() {
	subtotal := kernel.ZeroMoney()
	for _, item := range o.items {
		subtotal = subtotal.Add(item.TotalPrice())
	}
	o.subtotal = subtotal
	o.total = subtotal.Add(o.deliveryFee)
	o.needsInsulatedBag = o.TotalQuantity() >= InsulatedBagQuantity
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPostalCode(postalCode string) error {
	if postalCode == "" {
		return errs.NewValueIsRequiredError("postalCode")
	}
	o.postalCode = postalCode
	return nil
}

func (o *Order) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}
	o.deliveryDate = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]*Item, len(items))
	copy(o.items, items)
	return nil
}
