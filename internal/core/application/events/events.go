// Package events defines the JSON payloads published on the broker topics.
package events

import (
	"encoding/json"
	"time"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/ports"
)

const dateLayout = "2006-01-02"

// OrderCreated hands a new order to payment and notification.
type OrderCreated struct {
	OrderID      string `json:"orderId"`
	OrderNumber  string `json:"orderNumber"`
	CustomerID   string `json:"customerId,omitempty"`
	TotalAmount  string `json:"totalAmount"`
	Currency     string `json:"currency"`
	DeliveryDate string `json:"deliveryDate"`
}

type OrderCancelled struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelledAt"`
}

type MealLowStock struct {
	MealID    string `json:"mealId"`
	MealName  string `json:"mealName"`
	Available int    `json:"available"`
	Threshold int    `json:"threshold"`
}

func NewOrderCreated(o *order.Order) OrderCreated {
	return OrderCreated{
		OrderID:      o.ID().String(),
		OrderNumber:  o.Number().String(),
		CustomerID:   o.CustomerID(),
		TotalAmount:  o.Total().String(),
		Currency:     kernel.Currency,
		DeliveryDate: o.DeliveryDate().Format(dateLayout),
	}
}

func NewOrderCancelled(o *order.Order) OrderCancelled {
	e := OrderCancelled{
		OrderID:     o.ID().String(),
		OrderNumber: o.Number().String(),
		Reason:      o.CancelReason(),
	}
	if at := o.CancelledAt(); at != nil {
		e.CancelledAt = at.UTC()
	}
	return e
}

func NewMealLowStock(s meal.LowStockSignal) MealLowStock {
	return MealLowStock{
		MealID:    s.MealID.String(),
		MealName:  s.MealName,
		Available: s.Available,
		Threshold: s.Threshold,
	}
}

// OrderCreatedOutbox builds the outbox row for a freshly numbered order.
func OrderCreatedOutbox(o *order.Order, at time.Time) (ports.OutboxMessage, error) {
	payload, err := json.Marshal(NewOrderCreated(o))
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.NewOutboxMessage(ports.TopicOrderCreated, o.ID().String(), payload, at), nil
}

func OrderCancelledOutbox(o *order.Order, at time.Time) (ports.OutboxMessage, error) {
	payload, err := json.Marshal(NewOrderCancelled(o))
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.NewOutboxMessage(ports.TopicOrderCancelled, o.ID().String(), payload, at), nil
}

func LowStockMessage(s meal.LowStockSignal) (ports.Message, error) {
	payload, err := json.Marshal(NewMealLowStock(s))
	if err != nil {
		return ports.Message{}, err
	}
	return ports.Message{Topic: ports.TopicMealLowStock, Key: s.MealID.String(), Value: payload}, nil
}
