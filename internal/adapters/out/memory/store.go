// Package memory is an in-process storage adapter. A unit of work holds the
// store exclusively from Begin to Commit or Rollback. Rollback does not undo
// writes; callers compensate, see ports.UnitOfWork.SupportsRollback.
package memory

import (
	"sort"
	"sync"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/ports"
)

// Operation names a write that can be made to fail in tests.
type Operation string

const (
	OpAddOrder    Operation = "order.add"
	OpUpdateOrder Operation = "order.update"
	OpSetNumber   Operation = "order.set_number"
	OpAddOutbox   Operation = "outbox.add"
	OpUpdateMeal  Operation = "meal.update"
)

type mealRow struct {
	name      string
	price     kernel.Money
	count     int
	threshold int
	active    bool
}

type zoneRow struct {
	name     string
	prefixes []string
	fee      kernel.Money
	active   bool
}

// Store holds every table. Rows are values; nothing handed out aliases them.
type Store struct {
	sem chan struct{}

	meals    map[kernel.UUID]mealRow
	orders   map[kernel.UUID]order.Snapshot
	numbers  map[string]kernel.UUID
	zones    map[kernel.UUID]zoneRow
	counters map[string]int64
	outbox   []ports.OutboxMessage

	failMu   sync.Mutex
	failures map[Operation][]error
}

func NewStore() *Store {
	return &Store{
		sem:      make(chan struct{}, 1),
		meals:    make(map[kernel.UUID]mealRow),
		orders:   make(map[kernel.UUID]order.Snapshot),
		numbers:  make(map[string]kernel.UUID),
		zones:    make(map[kernel.UUID]zoneRow),
		counters: make(map[string]int64),
		failures: make(map[Operation][]error),
	}
}

// FailNext makes the next call of op return err. Calls queue up.
func (s *Store) FailNext(op Operation, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures[op] = append(s.failures[op], err)
}

func (s *Store) injected(op Operation) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	queue := s.failures[op]
	if len(queue) == 0 {
		return nil
	}
	s.failures[op] = queue[1:]
	return queue[0]
}

func (s *Store) lock()   { s.sem <- struct{}{} }
func (s *Store) unlock() { <-s.sem }

// MealCount reads a count outside any unit of work.
func (s *Store) MealCount(id kernel.UUID) (int, bool) {
	s.lock()
	defer s.unlock()
	row, ok := s.meals[id]
	return row.count, ok
}

func (s *Store) OrderCount() int {
	s.lock()
	defer s.unlock()
	return len(s.orders)
}

// Outbox returns a copy of the outbox in insertion order.
func (s *Store) Outbox() []ports.OutboxMessage {
	s.lock()
	defer s.unlock()
	out := make([]ports.OutboxMessage, len(s.outbox))
	copy(out, s.outbox)
	return out
}

// Numbers returns every assigned order number, sorted.
func (s *Store) Numbers() []string {
	s.lock()
	defer s.unlock()
	out := make([]string, 0, len(s.numbers))
	for n := range s.numbers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
