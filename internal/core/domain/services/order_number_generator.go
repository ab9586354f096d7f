package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/pkg/errs"
)

var numberPrefixPattern = regexp.MustCompile(`^[A-Z]*$`)

// SequenceSource hands out strictly increasing values per day key. The
// storage implementation keeps the day's counter row locked until commit.
type SequenceSource interface {
	NextValue(ctx context.Context, dayKey string) (int64, error)
}

type OrderNumberGenerator struct {
	prefix string
	width  int
	loc    *time.Location
}

func NewOrderNumberGenerator(prefix string, width int, loc *time.Location) (*OrderNumberGenerator, error) {
	if !numberPrefixPattern.MatchString(prefix) {
		return nil, errs.NewValueIsInvalidErrorWithCause("prefix", fmt.Errorf("%q must be upper case letters", prefix))
	}
	if width <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("width", width, 1, "unbounded")
	}
	if loc == nil {
		return nil, errs.NewValueIsRequiredError("location")
	}
	return &OrderNumberGenerator{prefix: prefix, width: width, loc: loc}, nil
}

// Next draws the next number for the business day containing at.
func (g *OrderNumberGenerator) Next(ctx context.Context, source SequenceSource, at time.Time) (order.Number, error) {
	day := at.In(g.loc)
	seq, err := source.NextValue(ctx, order.DayKey(day))
	if err != nil {
		return order.Number{}, err
	}
	return order.NewNumber(g.prefix, day, seq, g.width)
}
