package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for every command attempt.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories it hands out
// work inside the transaction started by Begin.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// SupportsRollback reports whether Rollback undoes writes. When it does
	// not, callers undo their own writes before releasing the unit of work.
	SupportsRollback() bool

	// SavePoint and RollbackTo scope a partial rollback inside the transaction.
	SavePoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error

	MealRepository() MealRepository
	OrderRepository() OrderRepository
	ZoneRepository() ZoneRepository
	OrderNumberCounter() OrderNumberCounter
	OutboxRepository() OutboxRepository
}
