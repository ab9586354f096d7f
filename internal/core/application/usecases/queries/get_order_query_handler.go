package queries

import (
	"context"
	"time"

	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads straight from the orders tables, bypassing the
// aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	ID                uuid.UUID
	OrderNumber       *string
	CustomerID        string
	PostalCode        string
	ZoneID            uuid.UUID
	DeliveryDate      time.Time
	DeliveryWindow    string
	Notes             string
	Subtotal          decimal.Decimal
	DeliveryFee       decimal.Decimal
	Total             decimal.Decimal
	Currency          string
	Status            int
	PaymentStatus     int
	NeedsInsulatedBag bool
	CancelReason      string
	CreatedAt         time.Time
	CancelledAt       *time.Time
}

type orderItemRow struct {
	MealID     uuid.UUID
	MealName   string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)

	var row orderRow
	res := db.Raw(`
		SELECT
			id, order_number, customer_id, postal_code, zone_id,
			delivery_date, delivery_window, notes,
			subtotal, delivery_fee, total, currency,
			status, payment_status, needs_insulated_bag,
			cancel_reason, created_at, cancelled_at
		FROM orders
		WHERE id = ?`, query.OrderID().Bytes()).Scan(&row)
	if res.Error != nil {
		return GetOrderQueryResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	var items []orderItemRow
	err := db.Raw(`
		SELECT meal_id, meal_name, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position`, query.OrderID().Bytes()).Scan(&items).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{
		ID:                row.ID.String(),
		CustomerID:        row.CustomerID,
		PostalCode:        row.PostalCode,
		ZoneID:            row.ZoneID.String(),
		DeliveryDate:      row.DeliveryDate.UTC(),
		DeliveryWindow:    row.DeliveryWindow,
		Notes:             row.Notes,
		Subtotal:          row.Subtotal.StringFixed(2),
		DeliveryFee:       row.DeliveryFee.StringFixed(2),
		Total:             row.Total.StringFixed(2),
		Currency:          row.Currency,
		Status:            order.Status(row.Status).String(),
		PaymentStatus:     order.PaymentStatus(row.PaymentStatus).String(),
		NeedsInsulatedBag: row.NeedsInsulatedBag,
		CancelReason:      row.CancelReason,
		CreatedAt:         row.CreatedAt,
		CancelledAt:       row.CancelledAt,
		Items:             make([]GetOrderItemResponse, 0, len(items)),
	}
	if row.OrderNumber != nil {
		resp.OrderNumber = *row.OrderNumber
	}
	for _, it := range items {
		resp.Items = append(resp.Items, GetOrderItemResponse{
			MealID:     it.MealID.String(),
			MealName:   it.MealName,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.StringFixed(2),
			TotalPrice: it.TotalPrice.StringFixed(2),
		})
	}
	return resp, nil
}
