// Package counterrepo keeps the per-day order number sequence in storage.
package counterrepo

import (
	"context"

	"mealorder/internal/adapters/out/postgres/pgerr"

	"gorm.io/gorm"
)

type CounterDTO struct {
	Day       string `gorm:"type:char(8);primaryKey"`
	LastValue int64  `gorm:"type:bigint;not null"`
}

func (CounterDTO) TableName() string {
	return "order_number_counters"
}

// GormOrderNumberCounter implements ports.OrderNumberCounter with an upsert.
// The updated row stays locked until the transaction ends, so a second
// transaction asking for the same day waits and then sees the next value.
type GormOrderNumberCounter struct {
	db *gorm.DB
}

func NewGormOrderNumberCounter(db *gorm.DB) *GormOrderNumberCounter {
	return &GormOrderNumberCounter{db: db}
}

func (c *GormOrderNumberCounter) NextValue(ctx context.Context, dayKey string) (int64, error) {
	var next int64
	err := c.db.WithContext(ctx).Raw(`
		INSERT INTO order_number_counters (day, last_value)
		VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE
			SET last_value = order_number_counters.last_value + 1
		RETURNING last_value
	`, dayKey).Scan(&next).Error
	if err != nil {
		return 0, pgerr.Classify(err)
	}
	return next, nil
}
