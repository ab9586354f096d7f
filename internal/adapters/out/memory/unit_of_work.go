package memory

import (
	"context"
	"errors"

	"mealorder/internal/core/ports"
)

var ErrNoActiveTransaction = errors.New("no active unit of work")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork serializes access to the store. Repositories must only be used
// between Begin and Commit or Rollback.
type UnitOfWork struct {
	store  *Store
	active bool
}

// Begin waits for exclusive access or for ctx to end.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return nil
	}

	select {
	case u.store.sem <- struct{}{}:
		u.active = true
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	return u.release()
}

// Rollback only releases the store. Writes already made stay.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	return u.release()
}

func (u *UnitOfWork) release() error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	u.active = false
	u.store.unlock()
	return nil
}

func (u *UnitOfWork) SupportsRollback() bool { return false }

// SavePoint and RollbackTo have nothing to do: a failed write leaves no trace.
func (u *UnitOfWork) SavePoint(_ context.Context, _ string) error  { return nil }
func (u *UnitOfWork) RollbackTo(_ context.Context, _ string) error { return nil }

func (u *UnitOfWork) MealRepository() ports.MealRepository {
	return &mealRepository{store: u.store}
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{store: u.store}
}

func (u *UnitOfWork) ZoneRepository() ports.ZoneRepository {
	return &zoneRepository{store: u.store}
}

func (u *UnitOfWork) OrderNumberCounter() ports.OrderNumberCounter {
	return &counter{store: u.store}
}

func (u *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return &outboxRepository{store: u.store}
}
