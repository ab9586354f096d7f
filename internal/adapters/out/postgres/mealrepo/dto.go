// Package mealrepo persists meals and their inventory counts.
package mealrepo

import (
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MealDTO is one row of the meals table. The check constraint keeps the
// count from going negative even if a caller skips the domain checks.
type MealDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name              string          `gorm:"type:varchar(255);not null"`
	Price             decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	AvailableCount    int             `gorm:"type:int;not null;check:available_count >= 0"`
	LowStockThreshold int             `gorm:"type:int;not null"`
	IsActive          bool            `gorm:"not null;index"`
}

func (MealDTO) TableName() string {
	return "meals"
}

func fromDomain(m *meal.Meal) MealDTO {
	return MealDTO{
		ID:                m.ID().Bytes(),
		Name:              m.Name(),
		Price:             m.Price().Amount(),
		AvailableCount:    m.AvailableCount(),
		LowStockThreshold: m.LowStockThreshold(),
		IsActive:          m.IsActive(),
	}
}

func toDomain(dto MealDTO) (*meal.Meal, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	return meal.Restore(id, dto.Name, price, dto.AvailableCount, dto.LowStockThreshold, dto.IsActive)
}

func toDomainList(dtos []MealDTO) ([]*meal.Meal, error) {
	meals := make([]*meal.Meal, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, nil
}
