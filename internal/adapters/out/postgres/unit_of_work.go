// Package postgres is the GORM storage adapter. A unit of work is one
// SERIALIZABLE transaction; concurrent reservations or numbering that would
// interleave badly fail with SQLSTATE 40001 and are retried by the caller.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package postgres

import (
	"context"
	"database/sql"

	"mealorder/internal/adapters/out/postgres/counterrepo"
	"mealorder/internal/adapters/out/postgres/mealrepo"
	"mealorder/internal/adapters/out/postgres/orderrepo"
	"mealorder/internal/adapters/out/postgres/outboxrepo"
	"mealorder/internal/adapters/out/postgres/pgerr"
	"mealorder/internal/adapters/out/postgres/zonerepo"
	"mealorder/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates a fresh unit of work per attempt.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork wraps one GORM transaction. Repositories obtained before
// Begin run outside any transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens a SERIALIZABLE transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return pgerr.Classify(tx.Error)
	}

	uow.tx = tx
	return nil
}

// Commit may fail with a serialization conflict; the error is marked so the
// caller can retry the whole transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return pgerr.Classify(err)
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) SupportsRollback() bool { return true }

func (uow *GormUnitOfWork) SavePoint(_ context.Context, name string) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return uow.tx.SavePoint(name).Error
}

func (uow *GormUnitOfWork) RollbackTo(_ context.Context, name string) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return uow.tx.RollbackTo(name).Error
}

func (uow *GormUnitOfWork) MealRepository() ports.MealRepository {
	return mealrepo.NewGormMealRepository(uow.conn())
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) ZoneRepository() ports.ZoneRepository {
	return zonerepo.NewGormZoneRepository(uow.conn())
}

func (uow *GormUnitOfWork) OrderNumberCounter() ports.OrderNumberCounter {
	return counterrepo.NewGormOrderNumberCounter(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
