package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetLowStockMealsQueryHandler struct {
	db *gorm.DB
}

func NewGetLowStockMealsQueryHandler(db *gorm.DB) GetLowStockMealsQueryHandler {
	return GetLowStockMealsQueryHandler{db: db}
}

func (h GetLowStockMealsQueryHandler) Handle(
	ctx context.Context,
	query GetLowStockMealsQuery,
) ([]GetLowStockMealsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, available_count, low_stock_threshold
		FROM meals
		WHERE is_active AND available_count <= low_stock_threshold
		ORDER BY name`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := make([]GetLowStockMealsQueryResponse, 0)
	for rows.Next() {
		var (
			id   uuid.UUID
			resp GetLowStockMealsQueryResponse
		)
		if err := rows.Scan(&id, &resp.Name, &resp.AvailableCount, &resp.LowStockThreshold); err != nil {
			return nil, err
		}
		resp.MealID = id.String()
		meals = append(meals, resp)
	}
	return meals, rows.Err()
}
