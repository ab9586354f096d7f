package queries

import (
	"errors"
	"strings"
	"time"

	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/guard"
)

var ErrCheckServiceabilityQueryIsNotConstructed = errors.New(
	"CheckServiceabilityQuery must be created via NewCheckServiceabilityQuery constructor",
)

// CheckServiceabilityQuery asks whether a postal code is delivered to and
// when the next delivery can still be ordered.
type CheckServiceabilityQuery struct {
	postalCode string

	guard guard.ConstructorGuard
}

func NewCheckServiceabilityQuery(postalCode string) (CheckServiceabilityQuery, error) {
	if strings.TrimSpace(postalCode) == "" {
		return CheckServiceabilityQuery{}, errs.NewValueIsRequiredError("postalCode")
	}
	return CheckServiceabilityQuery{postalCode: postalCode, guard: guard.NewConstructorGuard()}, nil
}

func (q CheckServiceabilityQuery) Validate() error {
	return q.guard.Validate(ErrCheckServiceabilityQueryIsNotConstructed)
}

func (q CheckServiceabilityQuery) PostalCode() string { return q.postalCode }

// CheckServiceabilityQueryResponse is filled in full only when IsServiceable;
// otherwise Suggestions may list nearby served prefixes.
type CheckServiceabilityQueryResponse struct {
	IsServiceable    bool
	PostalCode       string
	ZoneName         string
	Fee              string
	DeliveryDays     []string
	NextDeliveryDate time.Time
	DeliveryWindow   string
	OrderDeadline    time.Time
	Suggestions      []string
}
