package orderrepo

import (
	"context"
	"errors"

	"mealorder/internal/adapters/out/postgres/pgerr"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order row and its items in one statement batch.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgerr.Classify(r.db.WithContext(ctx).Create(&dto).Error)
}

// Update writes the lifecycle columns. Items and totals never change after creation.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":         dto.Status,
			"payment_status": dto.PaymentStatus,
			"cancel_reason":  dto.CancelReason,
			"cancelled_at":   dto.CancelledAt,
		})
	if result.Error != nil {
		return pgerr.Classify(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID().String())
	}
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// SetNumber relies on the unique index on order_number; a taken number comes
// back marked ports.ErrUniqueViolation.
func (r *GormOrderRepository) SetNumber(ctx context.Context, id kernel.UUID, number order.Number) error {
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Update("order_number", number.String())
	if result.Error != nil {
		return pgerr.Classify(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", id.String())
	}
	return nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&OrderItemDTO{}, "order_id = ?", id.Bytes()).Error; err != nil {
		return pgerr.Classify(err)
	}
	return pgerr.Classify(db.Delete(&OrderDTO{}, "id = ?", id.Bytes()).Error)
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return nil, pgerr.Classify(err)
	}

	return toDomain(dto)
}
