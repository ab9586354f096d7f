package order

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"mealorder/internal/pkg/errs"
)

const (
	DefaultNumberPrefix = "FB"
	DefaultNumberWidth  = 3
	numberDayLayout     = "20060102"
)

var numberPattern = regexp.MustCompile(`^([A-Z]*)(\d{8})(\d+)$`)

// Number is the human readable order identifier, e.g. FB20240115001.
// A sequence wider than the configured width is printed in full.
type Number struct {
	prefix   string
	day      string
	sequence int64
	width    int
}

// NewNumber formats day (its calendar date is used as is) and sequence.
func NewNumber(prefix string, day time.Time, sequence int64, width int) (Number, error) {
	if sequence <= 0 {
		return Number{}, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, "unbounded")
	}
	if width <= 0 {
		return Number{}, errs.NewValueIsOutOfRangeError("width", width, 1, "unbounded")
	}
	if day.IsZero() {
		return Number{}, errs.NewValueIsRequiredError("day")
	}
	return Number{prefix: prefix, day: day.Format(numberDayLayout), sequence: sequence, width: width}, nil
}

// ParseNumber reads back a stored number. The width is taken from the digits present.
func ParseNumber(s string) (Number, error) {
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("orderNumber", fmt.Errorf("%q is malformed", s))
	}
	if _, err := time.Parse(numberDayLayout, m[2]); err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("orderNumber", err)
	}
	seq, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil || seq <= 0 {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("orderNumber", fmt.Errorf("%q has no sequence", s))
	}
	return Number{prefix: m[1], day: m[2], sequence: seq, width: len(m[3])}, nil
}

// DayKey is the YYYYMMDD scope of the sequence.
func (n Number) DayKey() string  { return n.day }
func (n Number) Prefix() string  { return n.prefix }
func (n Number) Sequence() int64 { return n.sequence }
func (n Number) IsZero() bool    { return n.sequence == 0 }

func (n Number) String() string {
	if n.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s%s%0*d", n.prefix, n.day, n.width, n.sequence)
}

func DayKey(day time.Time) string {
	return day.Format(numberDayLayout)
}
