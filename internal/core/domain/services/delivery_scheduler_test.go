package services_test

import (
	"testing"
	"time"

	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/errs"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vancouver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Vancouver")
	require.NoError(t, err)
	return loc
}

func newScheduler(t *testing.T) *services.DeliveryScheduler {
	t.Helper()
	s, err := services.NewDeliveryScheduler(services.DefaultDeliveryRules(), vancouver(t))
	require.NoError(t, err)
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDeliveryScheduler(t *testing.T) {
	loc := vancouver(t)

	t.Run("should reject an empty rule table", func(t *testing.T) {
		_, err := services.NewDeliveryScheduler(nil, loc)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject duplicate weekdays", func(t *testing.T) {
		rules := append(services.DefaultDeliveryRules(), services.DeliveryRule{Weekday: time.Sunday})
		_, err := services.NewDeliveryScheduler(rules, loc)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject negative days before", func(t *testing.T) {
		_, err := services.NewDeliveryScheduler([]services.DeliveryRule{{Weekday: time.Monday, DaysBefore: -1}}, loc)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("weekdays are sorted", func(t *testing.T) {
		s := newScheduler(t)
		assert.Equal(t, []time.Weekday{time.Sunday, time.Wednesday}, s.DeliveryWeekdays())
	})
}

func TestDeliveryScheduler_NextDeliveryDate(t *testing.T) {
	s := newScheduler(t)

	tests := []struct {
		name      string
		from      time.Time
		inclusive bool
		want      time.Time
	}{
		{"monday to wednesday", date(2024, 1, 15), false, date(2024, 1, 17)},
		{"wednesday inclusive stays", date(2024, 1, 17), true, date(2024, 1, 17)},
		{"wednesday exclusive goes to sunday", date(2024, 1, 17), false, date(2024, 1, 21)},
		{"thursday to sunday", date(2024, 1, 18), true, date(2024, 1, 21)},
		{"saturday to sunday", date(2024, 1, 20), false, date(2024, 1, 21)},
		{"sunday exclusive to wednesday", date(2024, 1, 21), false, date(2024, 1, 24)},
		{"crosses the year", date(2024, 12, 30), false, date(2025, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.NextDeliveryDate(tt.from, tt.inclusive)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NextDeliveryDate mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, s.IsDeliveryDay(got))
		})
	}
}

func TestDeliveryScheduler_OrderDeadline(t *testing.T) {
	s := newScheduler(t)
	loc := vancouver(t)

	t.Run("sunday closes tuesday 18:00 local", func(t *testing.T) {
		deadline, err := s.OrderDeadline(date(2024, 1, 21))

		require.NoError(t, err)
		assert.True(t, deadline.Equal(time.Date(2024, 1, 16, 18, 0, 0, 0, loc)))
		assert.Equal(t, time.Tuesday, deadline.Weekday())
	})

	t.Run("wednesday closes saturday 18:00 local", func(t *testing.T) {
		deadline, err := s.OrderDeadline(date(2024, 1, 17))

		require.NoError(t, err)
		assert.True(t, deadline.Equal(time.Date(2024, 1, 13, 18, 0, 0, 0, loc)))
		assert.Equal(t, time.Saturday, deadline.In(loc).Weekday())
	})

	t.Run("non delivery day has no deadline", func(t *testing.T) {
		_, err := s.OrderDeadline(date(2024, 1, 15))
		require.ErrorIs(t, err, services.ErrNotDeliveryDay)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		first, _ := s.OrderDeadline(date(2024, 3, 10))
		for range 10 {
			again, _ := s.OrderDeadline(date(2024, 3, 10))
			assert.True(t, first.Equal(again))
		}
	})
}

func TestDeliveryScheduler_IsPastDeadline(t *testing.T) {
	s := newScheduler(t)
	delivery := date(2024, 1, 21)
	deadline, err := s.OrderDeadline(delivery)
	require.NoError(t, err)

	before, err := s.IsPastDeadline(deadline.Add(-time.Second), delivery)
	require.NoError(t, err)
	assert.False(t, before)

	exact, err := s.IsPastDeadline(deadline, delivery)
	require.NoError(t, err)
	assert.False(t, exact)

	after, err := s.IsPastDeadline(deadline.Add(time.Second), delivery)
	require.NoError(t, err)
	assert.True(t, after)
}

func TestDeliveryScheduler_CheckOrderable(t *testing.T) {
	s := newScheduler(t)
	loc := vancouver(t)

	t.Run("non delivery weekday is corrected to the next delivery day", func(t *testing.T) {
		now := time.Date(2024, 1, 10, 9, 0, 0, 0, loc)

		got, err := s.CheckOrderable(now, date(2024, 1, 15))

		require.NoError(t, err)
		assert.Equal(t, date(2024, 1, 17), got)
	})

	t.Run("corrected date uses its own deadline", func(t *testing.T) {
		now := time.Date(2024, 1, 13, 18, 0, 1, 0, loc)

		_, err := s.CheckOrderable(now, date(2024, 1, 15))

		var past *services.PastDeadlineError
		require.ErrorAs(t, err, &past)
		assert.Equal(t, date(2024, 1, 17), past.DeliveryDate)
		assert.Equal(t, date(2024, 1, 21), past.NextAvailable)
	})

	t.Run("past dates are invalid", func(t *testing.T) {
		now := time.Date(2024, 1, 18, 9, 0, 0, 0, loc)

		_, err := s.CheckOrderable(now, date(2024, 1, 17))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("late evening uses the business date, not UTC", func(t *testing.T) {
		// 2024-01-16 20:00 in Vancouver is already 2024-01-17 in UTC.
		now := time.Date(2024, 1, 16, 20, 0, 0, 0, loc)

		assert.Equal(t, date(2024, 1, 16), s.Today(now))
		got, err := s.CheckOrderable(now, date(2024, 1, 24))
		require.NoError(t, err)
		assert.Equal(t, date(2024, 1, 24), got)
	})
}

func TestDeliveryScheduler_NextOrderableDeliveryDate(t *testing.T) {
	s := newScheduler(t)
	loc := vancouver(t)

	// Wednesday 2024-01-17 already closed, Sunday 2024-01-21 closed on Tuesday.
	now := time.Date(2024, 1, 17, 8, 0, 0, 0, loc)

	assert.Equal(t, date(2024, 1, 24), s.NextOrderableDeliveryDate(now))
	assert.Equal(t, "Wednesday 16:00-20:00", s.WindowLabel(date(2024, 1, 24)))
}

func TestParseClockTime(t *testing.T) {
	c, err := services.ParseClockTime("07:30")
	require.NoError(t, err)
	assert.Equal(t, services.ClockTime{Hour: 7, Minute: 30}, c)
	assert.Equal(t, "07:30", c.String())

	for _, bad := range []string{"", "7", "24:00", "12:60", "ab:cd"} {
		_, err = services.ParseClockTime(bad)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid, bad)
	}
}
