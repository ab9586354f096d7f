// Package orderrepo persists orders and their items.
package orderrepo

import (
	"time"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is one row of the orders table. The order number is unique and
// stays NULL until numbering succeeds.
type OrderDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number            *string         `gorm:"column:order_number;type:varchar(32);uniqueIndex"`
	CustomerID        string          `gorm:"type:varchar(255)"`
	PostalCode        string          `gorm:"type:varchar(10);not null"`
	ZoneID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveryDate      time.Time       `gorm:"type:date;not null;index"`
	DeliveryWindow    string          `gorm:"type:varchar(64);not null"`
	Notes             string          `gorm:"type:text"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	DeliveryFee       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Total             decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency          string          `gorm:"type:varchar(3);not null"`
	Status            int             `gorm:"type:smallint;not null;index"`
	PaymentStatus     int             `gorm:"type:smallint;not null"`
	NeedsInsulatedBag bool            `gorm:"not null"`
	CancelReason      string          `gorm:"type:varchar(500)"`
	CreatedAt         time.Time       `gorm:"not null"`
	CancelledAt       *time.Time
	Items             []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one order line. Position keeps the request's line order.
type OrderItemDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"type:int;not null"`
	MealID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MealName   string          `gorm:"type:varchar(255);not null"`
	Quantity   int             `gorm:"type:int;not null;check:quantity > 0"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	var number *string
	if !o.Number().IsZero() {
		s := o.Number().String()
		number = &s
	}

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			ID:         item.ID().Bytes(),
			OrderID:    o.ID().Bytes(),
			Position:   i,
			MealID:     item.MealID().Bytes(),
			MealName:   item.MealName(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Amount(),
			TotalPrice: item.TotalPrice().Amount(),
		})
	}

	return OrderDTO{
		ID:                o.ID().Bytes(),
		Number:            number,
		CustomerID:        o.CustomerID(),
		PostalCode:        o.PostalCode(),
		ZoneID:            o.ZoneID().Bytes(),
		DeliveryDate:      o.DeliveryDate(),
		DeliveryWindow:    o.DeliveryWindow(),
		Notes:             o.Notes(),
		Subtotal:          o.Subtotal().Amount(),
		DeliveryFee:       o.DeliveryFee().Amount(),
		Total:             o.Total().Amount(),
		Currency:          kernel.Currency,
		Status:            int(o.Status()),
		PaymentStatus:     int(o.PaymentStatus()),
		NeedsInsulatedBag: o.NeedsInsulatedBag(),
		CancelReason:      o.CancelReason(),
		CreatedAt:         o.CreatedAt(),
		CancelledAt:       o.CancelledAt(),
		Items:             items,
	}
}

// toDomain restores the aggregate. Totals and the insulated bag flag are
// derived again from the items rather than read back.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	zoneID, err := kernel.UUIDFromBytes(dto.ZoneID[:])
	if err != nil {
		return nil, err
	}

	fee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	snapshot := order.Snapshot{
		Draft: order.Draft{
			ID:             id,
			CustomerID:     dto.CustomerID,
			PostalCode:     dto.PostalCode,
			ZoneID:         zoneID,
			DeliveryDate:   dto.DeliveryDate,
			DeliveryWindow: dto.DeliveryWindow,
			Notes:          dto.Notes,
			Items:          items,
			DeliveryFee:    fee,
			CreatedAt:      dto.CreatedAt,
		},
		Status:        order.Status(dto.Status),
		PaymentStatus: order.PaymentStatus(dto.PaymentStatus),
		CancelReason:  dto.CancelReason,
		CancelledAt:   dto.CancelledAt,
	}
	if dto.Number != nil {
		snapshot.Number = *dto.Number
	}

	return order.Restore(snapshot)
}

func itemToDomain(dto OrderItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	mealID, err := kernel.UUIDFromBytes(dto.MealID[:])
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return nil, err
	}

	return order.NewItem(id, mealID, dto.MealName, dto.Quantity, price)
}
