package order

import (
	"fmt"
	"strings"

	"mealorder/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	OutForDelivery
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:        "PENDING",
	Confirmed:      "CONFIRMED",
	Preparing:      "PREPARING",
	OutForDelivery: "OUT_FOR_DELIVERY",
	Delivered:      "DELIVERED",
	Cancelled:      "CANCELLED",
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, s) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

func (s Status) CanCancel() bool {
	return s == Pending || s == Confirmed
}

func (s Status) Confirm() (Status, error) {
	return s.transition(Confirmed, Pending)
}

func (s Status) StartPreparing() (Status, error) {
	return s.transition(Preparing, Confirmed)
}

func (s Status) Dispatch() (Status, error) {
	return s.transition(OutForDelivery, Preparing)
}

func (s Status) Deliver() (Status, error) {
	return s.transition(Delivered, OutForDelivery)
}

func (s Status) Cancel() (Status, error) {
	return s.transition(Cancelled, Pending, Confirmed)
}

func (s Status) transition(to Status, from ...Status) (Status, error) {
	for _, allowed := range from {
		if s == allowed {
			return to, nil
		}
	}
	return s, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("cannot move from %s to %s", s, to),
	)
}
