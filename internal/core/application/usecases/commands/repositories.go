// Package commands contains business operations that modify system state.
// Every handler follows the same shape: validate the command, run the work in
// a unit of work, publish side effects after commit.
package commands

import (
	"context"

	"mealorder/internal/core/ports"
)

// Unit of Work views used by the handlers. Each handler asks for the smallest
// view it needs; the composition root adapts the storage factory to it.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// Savepointer exposes partial rollback. When SupportsRollback is false the
	// handler compensates its own writes.
	Savepointer interface {
		SupportsRollback() bool
		SavePoint(ctx context.Context, name string) error
		RollbackTo(ctx context.Context, name string) error
	}

	MealRepoFactory interface {
		MealRepository() ports.MealRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ZoneRepoFactory interface {
		ZoneRepository() ports.ZoneRepository
	}

	CounterFactory interface {
		OrderNumberCounter() ports.OrderNumberCounter
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// InventoryUoW is used by stock adjustments.
	InventoryUoW interface {
		TxManager
		MealRepoFactory
	}

	InventoryUoWFactory interface {
		Create() InventoryUoW
	}

	// OrderUoW spans every aggregate an order touches: meals, the order,
	// its zone, the day counter and the outbox.
	OrderUoW interface {
		TxManager
		Savepointer
		MealRepoFactory
		OrderRepoFactory
		ZoneRepoFactory
		CounterFactory
		OutboxRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW is used by the relay.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
