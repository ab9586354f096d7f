package services_test

import (
	"context"
	"testing"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

// fakeMealStore keeps meals by value so a failed operation cannot leak
// half-applied changes through shared pointers.
type fakeMealStore struct {
	rows      map[kernel.UUID]mealRow
	lockOrder []kernel.UUID
	updates   int

	// failUpdate makes the update with this 1-based index return updateErr.
	failUpdate int
	updateErr  error
}

type mealRow struct {
	name      string
	price     kernel.Money
	count     int
	threshold int
	active    bool
}

func newFakeMealStore() *fakeMealStore {
	return &fakeMealStore{rows: map[kernel.UUID]mealRow{}}
}

func (s *fakeMealStore) add(t *testing.T, name string, price string, count, threshold int) kernel.UUID {
	t.Helper()
	id := kernel.NewUUID()
	s.rows[id] = mealRow{name: name, price: kernel.MustMoney(price), count: count, threshold: threshold, active: true}
	return id
}

func (s *fakeMealStore) count(id kernel.UUID) int {
	return s.rows[id].count
}

func (s *fakeMealStore) load(id kernel.UUID) (*meal.Meal, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("mealId", id.String())
	}
	return meal.Restore(id, row.name, row.price, row.count, row.threshold, row.active)
}

func (s *fakeMealStore) GetForUpdate(_ context.Context, id kernel.UUID) (*meal.Meal, error) {
	s.lockOrder = append(s.lockOrder, id)
	return s.load(id)
}

func (s *fakeMealStore) ListForUpdate(_ context.Context, ids []kernel.UUID) ([]*meal.Meal, error) {
	out := make([]*meal.Meal, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.rows[id]; !ok {
			continue
		}
		s.lockOrder = append(s.lockOrder, id)
		m, err := s.load(id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeMealStore) Update(_ context.Context, m *meal.Meal) error {
	s.updates++
	if s.updates == s.failUpdate {
		return s.updateErr
	}
	row := s.rows[m.ID()]
	row.count = m.AvailableCount()
	row.active = m.IsActive()
	s.rows[m.ID()] = row
	return nil
}

func (s *fakeMealStore) deactivate(t *testing.T, id kernel.UUID) {
	t.Helper()
	row, ok := s.rows[id]
	require.True(t, ok)
	row.active = false
	s.rows[id] = row
}
