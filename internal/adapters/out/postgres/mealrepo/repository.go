package mealrepo

import (
	"context"
	"errors"

	"mealorder/internal/adapters/out/postgres/pgerr"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMealRepository implements ports.MealRepository using GORM.
type GormMealRepository struct {
	db *gorm.DB
}

func NewGormMealRepository(db *gorm.DB) *GormMealRepository {
	return &GormMealRepository{db: db}
}

func (r *GormMealRepository) Add(ctx context.Context, aggregate *meal.Meal) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgerr.Classify(r.db.WithContext(ctx).Create(&dto).Error)
}

// Update writes count, threshold and the active flag. Name and price belong
// to the catalog and are left alone.
func (r *GormMealRepository) Update(ctx context.Context, aggregate *meal.Meal) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&MealDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"available_count":     aggregate.AvailableCount(),
			"low_stock_threshold": aggregate.LowStockThreshold(),
			"is_active":           aggregate.IsActive(),
		})
	if result.Error != nil {
		return pgerr.Classify(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("mealId", aggregate.ID().String())
	}
	return nil
}

func (r *GormMealRepository) Get(ctx context.Context, id kernel.UUID) (*meal.Meal, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *GormMealRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*meal.Meal, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// ListForUpdate locks rows in ascending id order, which is the order
// kernel.UUID.Compare produces, so two reservations never wait on each other
// in a cycle.
func (r *GormMealRepository) ListForUpdate(ctx context.Context, ids []kernel.UUID) ([]*meal.Meal, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		raw[i] = id.Bytes()
	}

	var dtos []MealDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", raw).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, pgerr.Classify(err)
	}

	return toDomainList(dtos)
}

func (r *GormMealRepository) ListLowStock(ctx context.Context) ([]*meal.Meal, error) {
	var dtos []MealDTO
	if err := r.db.WithContext(ctx).
		Where("is_active AND available_count <= low_stock_threshold").
		Order("name").
		Find(&dtos).Error; err != nil {
		return nil, pgerr.Classify(err)
	}

	return toDomainList(dtos)
}

func (r *GormMealRepository) get(db *gorm.DB, id kernel.UUID) (*meal.Meal, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MealDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("mealId", id.String())
		}
		return nil, pgerr.Classify(err)
	}

	return toDomain(dto)
}
