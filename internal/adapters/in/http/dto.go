package http

import (
	"time"

	"mealorder/internal/core/application/usecases/queries"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/order"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type Health struct {
	Status string `json:"status"`
}

type NewOrder struct {
	CustomerID   string             `json:"customerId"`
	DeliveryDate openapi_types.Date `json:"deliveryDate"`
	PostalCode   string             `json:"postalCode"`
	Notes        string             `json:"notes"`
	Items        []NewOrderItem     `json:"items"`
}

type NewOrderItem struct {
	MealID   openapi_types.UUID `json:"mealId"`
	Quantity int                `json:"quantity"`
}

type Order struct {
	ID                string             `json:"id"`
	OrderNumber       string             `json:"orderNumber,omitempty"`
	CustomerID        string             `json:"customerId,omitempty"`
	Status            string             `json:"status"`
	PaymentStatus     string             `json:"paymentStatus"`
	PostalCode        string             `json:"postalCode"`
	ZoneID            string             `json:"zoneId"`
	DeliveryDate      openapi_types.Date `json:"deliveryDate"`
	DeliveryWindow    string             `json:"deliveryWindow"`
	Notes             string             `json:"notes,omitempty"`
	Items             []OrderItem        `json:"items"`
	Subtotal          string             `json:"subtotal"`
	DeliveryFee       string             `json:"deliveryFee"`
	Total             string             `json:"total"`
	Currency          string             `json:"currency"`
	NeedsInsulatedBag bool               `json:"needsInsulatedBag"`
	CancelReason      string             `json:"cancelReason,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	CancelledAt       *time.Time         `json:"cancelledAt,omitempty"`
}

type OrderItem struct {
	MealID     string `json:"mealId"`
	MealName   string `json:"mealName"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	TotalPrice string `json:"totalPrice"`
}

type CancelOrder struct {
	Reason string `json:"reason"`
}

type PaymentStatusUpdate struct {
	Status string `json:"status"`
}

type Serviceability struct {
	IsServiceable    bool                `json:"isServiceable"`
	PostalCode       string              `json:"postalCode"`
	ZoneName         string              `json:"zoneName,omitempty"`
	Fee              string              `json:"fee,omitempty"`
	DeliveryDays     []string            `json:"deliveryDays,omitempty"`
	NextDeliveryDate *openapi_types.Date `json:"nextDeliveryDate,omitempty"`
	DeliveryWindow   string              `json:"deliveryWindow,omitempty"`
	OrderDeadline    *time.Time          `json:"orderDeadline,omitempty"`
	Suggestions      []string            `json:"suggestions"`
}

type InventoryAdjustment struct {
	Operation string `json:"operation"`
	Amount    int    `json:"amount"`
}

type InventoryLevel struct {
	MealID    string `json:"mealId"`
	Operation string `json:"operation"`
	Previous  int    `json:"previous"`
	Current   int    `json:"current"`
	LowStock  bool   `json:"lowStock"`
}

type Error struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Kind    string         `json:"kind,omitempty"`
	Step    string         `json:"step,omitempty"`
	MealIDs []string       `json:"mealIds,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func orderFromDomain(o *order.Order) Order {
	resp := Order{
		ID:                o.ID().String(),
		OrderNumber:       o.Number().String(),
		CustomerID:        o.CustomerID(),
		Status:            o.Status().String(),
		PaymentStatus:     o.PaymentStatus().String(),
		PostalCode:        o.PostalCode(),
		ZoneID:            o.ZoneID().String(),
		DeliveryDate:      openapi_types.Date{Time: o.DeliveryDate()},
		DeliveryWindow:    o.DeliveryWindow(),
		Notes:             o.Notes(),
		Items:             make([]OrderItem, 0, len(o.Items())),
		Subtotal:          o.Subtotal().String(),
		DeliveryFee:       o.DeliveryFee().String(),
		Total:             o.Total().String(),
		Currency:          kernel.Currency,
		NeedsInsulatedBag: o.NeedsInsulatedBag(),
		CancelReason:      o.CancelReason(),
		CreatedAt:         o.CreatedAt().UTC(),
		CancelledAt:       o.CancelledAt(),
	}
	for _, item := range o.Items() {
		resp.Items = append(resp.Items, OrderItem{
			MealID:     item.MealID().String(),
			MealName:   item.MealName(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().String(),
			TotalPrice: item.TotalPrice().String(),
		})
	}
	return resp
}

func orderFromQuery(o queries.GetOrderQueryResponse) Order {
	resp := Order{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.CustomerID,
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		PostalCode:        o.PostalCode,
		ZoneID:            o.ZoneID,
		DeliveryDate:      openapi_types.Date{Time: o.DeliveryDate},
		DeliveryWindow:    o.DeliveryWindow,
		Notes:             o.Notes,
		Items:             make([]OrderItem, 0, len(o.Items)),
		Subtotal:          o.Subtotal,
		DeliveryFee:       o.DeliveryFee,
		Total:             o.Total,
		Currency:          o.Currency,
		NeedsInsulatedBag: o.NeedsInsulatedBag,
		CancelReason:      o.CancelReason,
		CreatedAt:         o.CreatedAt.UTC(),
		CancelledAt:       o.CancelledAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItem(item))
	}
	return resp
}

func serviceabilityFromQuery(r queries.CheckServiceabilityQueryResponse) Serviceability {
	resp := Serviceability{
		IsServiceable: r.IsServiceable,
		PostalCode:    r.PostalCode,
		Suggestions:   r.Suggestions,
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	if !r.IsServiceable {
		return resp
	}

	resp.ZoneName = r.ZoneName
	resp.Fee = r.Fee
	resp.DeliveryDays = r.DeliveryDays
	resp.NextDeliveryDate = &openapi_types.Date{Time: r.NextDeliveryDate}
	resp.DeliveryWindow = r.DeliveryWindow
	deadline := r.OrderDeadline
	resp.OrderDeadline = &deadline
	return resp
}
