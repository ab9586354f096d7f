package order

import (
	"fmt"
	"strings"

	"mealorder/internal/pkg/errs"
)

type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	Unpaid
	Paid
	PaymentFailed
	Refunded
)

var paymentStatusNames = map[PaymentStatus]string{
	Unpaid:        "UNPAID",
	Paid:          "PAID",
	PaymentFailed: "FAILED",
	Refunded:      "REFUNDED",
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, name := range paymentStatusNames {
		if strings.EqualFold(name, s) {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"paymentStatus",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

func (p PaymentStatus) Validate() error {
	if _, ok := paymentStatusNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func (p PaymentStatus) String() string {
	if name, ok := paymentStatusNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}
