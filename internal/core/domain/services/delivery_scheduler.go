package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"mealorder/internal/pkg/errs"
)

var (
	ErrNotDeliveryDay = errors.New("date is not a delivery day")
	ErrPastDeadline   = errors.New("order deadline has passed")
)

// ClockTime is a wall clock time of day in the business time zone.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ClockTime{}, errs.NewValueIsInvalidErrorWithCause("cutoff", fmt.Errorf("%q is not HH:MM", s))
	}
	hour, errH := strconv.Atoi(hh)
	minute, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, errs.NewValueIsInvalidErrorWithCause("cutoff", fmt.Errorf("%q is not HH:MM", s))
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DeliveryRule says: deliveries happen on Weekday, and orders for it close
// DaysBefore days earlier at Cutoff.
type DeliveryRule struct {
	Weekday     time.Weekday
	DaysBefore  int
	Cutoff      ClockTime
	WindowLabel string
}

// DefaultDeliveryRules: Sunday closes Tuesday 18:00, Wednesday closes Saturday 18:00.
func DefaultDeliveryRules() []DeliveryRule {
	return []DeliveryRule{
		{Weekday: time.Sunday, DaysBefore: 5, Cutoff: ClockTime{Hour: 18}, WindowLabel: "Sunday 16:00-20:00"},
		{Weekday: time.Wednesday, DaysBefore: 4, Cutoff: ClockTime{Hour: 18}, WindowLabel: "Wednesday 16:00-20:00"},
	}
}

// PastDeadlineError carries what a caller needs to offer another date.
type PastDeadlineError struct {
	DeliveryDate  time.Time
	Deadline      time.Time
	Now           time.Time
	NextAvailable time.Time
}

func (e *PastDeadlineError) Error() string {
	return fmt.Sprintf("%s: delivery %s closed at %s, now %s, next available %s",
		ErrPastDeadline,
		e.DeliveryDate.Format(time.DateOnly),
		e.Deadline.Format(time.RFC3339),
		e.Now.Format(time.RFC3339),
		e.NextAvailable.Format(time.DateOnly))
}

func (e *PastDeadlineError) Unwrap() error {
	return ErrPastDeadline
}

// DeliveryScheduler computes delivery days and order deadlines. It is pure:
// results depend only on the arguments, the rule table and the location.
//
// Dates are calendar dates. Only the year, month and day of a date argument
// are used, and dates are returned at midnight UTC. Instants (now, deadlines)
// are real points in time, interpreted in the business location.
type DeliveryScheduler struct {
	rules    map[time.Weekday]DeliveryRule
	weekdays []time.Weekday
	loc      *time.Location
}

func NewDeliveryScheduler(rules []DeliveryRule, loc *time.Location) (*DeliveryScheduler, error) {
	if len(rules) == 0 {
		return nil, errs.NewValueIsRequiredError("deliveryRules")
	}
	if loc == nil {
		return nil, errs.NewValueIsRequiredError("location")
	}

	s := &DeliveryScheduler{
		rules: make(map[time.Weekday]DeliveryRule, len(rules)),
		loc:   loc,
	}
	for _, r := range rules {
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			return nil, errs.NewValueIsOutOfRangeError("weekday", int(r.Weekday), 0, 6)
		}
		if r.DaysBefore < 0 {
			return nil, errs.NewValueIsOutOfRangeError("daysBefore", r.DaysBefore, 0, "unbounded")
		}
		if _, dup := s.rules[r.Weekday]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("deliveryRules", fmt.Errorf("%s is configured twice", r.Weekday))
		}
		s.rules[r.Weekday] = r
		s.weekdays = append(s.weekdays, r.Weekday)
	}
	sort.Slice(s.weekdays, func(i, j int) bool { return s.weekdays[i] < s.weekdays[j] })

	return s, nil
}

func (s *DeliveryScheduler) Location() *time.Location {
	return s.loc
}

func (s *DeliveryScheduler) DeliveryWeekdays() []time.Weekday {
	out := make([]time.Weekday, len(s.weekdays))
	copy(out, s.weekdays)
	return out
}

// Today is the calendar date of now in the business location.
func (s *DeliveryScheduler) Today(now time.Time) time.Time {
	return civilDate(now.In(s.loc))
}

func (s *DeliveryScheduler) IsDeliveryDay(date time.Time) bool {
	_, ok := s.rules[civilDate(date).Weekday()]
	return ok
}

// NextDeliveryDate returns the nearest delivery date on or after from
// (inclusive) or strictly after it.
func (s *DeliveryScheduler) NextDeliveryDate(from time.Time, inclusive bool) time.Time {
	from = civilDate(from)
	best := 8
	for _, wd := range s.weekdays {
		distance := (int(wd) - int(from.Weekday()) + 7) % 7
		if distance == 0 && !inclusive {
			distance = 7
		}
		if distance < best {
			best = distance
		}
	}
	return from.AddDate(0, 0, best)
}

// OrderDeadline is the last instant an order for deliveryDate is accepted.
func (s *DeliveryScheduler) OrderDeadline(deliveryDate time.Time) (time.Time, error) {
	date := civilDate(deliveryDate)
	rule, ok := s.rules[date.Weekday()]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is a %s", ErrNotDeliveryDay, date.Format(time.DateOnly), date.Weekday())
	}
	return time.Date(
		date.Year(), date.Month(), date.Day()-rule.DaysBefore,
		rule.Cutoff.Hour, rule.Cutoff.Minute, 0, 0,
		s.loc,
	), nil
}

// IsPastDeadline reports now > OrderDeadline(deliveryDate).
func (s *DeliveryScheduler) IsPastDeadline(now, deliveryDate time.Time) (bool, error) {
	deadline, err := s.OrderDeadline(deliveryDate)
	if err != nil {
		return false, err
	}
	return now.After(deadline), nil
}

func (s *DeliveryScheduler) WindowLabel(deliveryDate time.Time) string {
	return s.rules[civilDate(deliveryDate).Weekday()].WindowLabel
}

// NextOrderableDeliveryDate is the first delivery date, from today on, whose
// deadline has not passed at now.
func (s *DeliveryScheduler) NextOrderableDeliveryDate(now time.Time) time.Time {
	candidate := s.NextDeliveryDate(s.Today(now), true)
	for range 400 {
		past, _ := s.IsPastDeadline(now, candidate)
		if !past {
			return candidate
		}
		candidate = s.NextDeliveryDate(candidate, false)
	}
	return candidate
}

// CheckOrderable validates a requested date at now. A date on a non delivery
// weekday is moved to the next delivery date strictly after it and that
// date's deadline is used. The effective delivery date is returned.
func (s *DeliveryScheduler) CheckOrderable(now, requested time.Time) (time.Time, error) {
	date := civilDate(requested)
	if date.Before(s.Today(now)) {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(
			"deliveryDate",
			fmt.Errorf("%s is in the past", date.Format(time.DateOnly)),
		)
	}

	if !s.IsDeliveryDay(date) {
		date = s.NextDeliveryDate(date, false)
	}

	deadline, err := s.OrderDeadline(date)
	if err != nil {
		return time.Time{}, err
	}
	if now.After(deadline) {
		return time.Time{}, &PastDeadlineError{
			DeliveryDate:  date,
			Deadline:      deadline,
			Now:           now,
			NextAvailable: s.NextOrderableDeliveryDate(now),
		}
	}
	return date, nil
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
