package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/repository"
)

const (
	EventOrderCreated          = "OrderCreated"
	EventOrderPaymentConfirmed = "OrderPaymentConfirmed"
	EventOrderPaymentFailed    = "OrderPaymentFailed"
	EventOrderCanceled         = "OrderCanceled"
	EventOrderOutOfStock       = "OrderOutOfStock"
	EventOrderCompleted        = "OrderCompleted"
	EventOrderRefundRequested  = "OrderRefundRequested"
	EventOrderRefunded         = "OrderRefunded"
)

type orderEventPayload struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	Currency    string    `json:"currency"`
	PaymentID   string    `json:"payment_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// orderEvent stages one outbox event describing the order's new state.
func orderEvent(eventType string, order *domain.Order, occurredAt time.Time) ([]repository.OutboxEvent, error) {
	payload, err := json.Marshal(orderEventPayload{
		OrderID:     order.ID().String(),
		CustomerID:  order.CustomerID().String(),
		Status:      string(order.Status()),
		TotalAmount: order.TotalAmount().Amount.String(),
		Currency:    order.TotalAmount().Currency,
		PaymentID:   order.PaymentID().String(),
		OccurredAt:  occurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return []repository.OutboxEvent{{
		AggregateID: order.ID().String(),
		EventType:   eventType,
		Payload:     payload,
	}}, nil
}
