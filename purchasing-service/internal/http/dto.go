package http

import (
	"time"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

type cartItemDTO struct {
	ID                string            `json:"id"`
	ProductID         string            `json:"product_id"`
	Options           map[string]string `json:"options,omitempty"`
	Quantity          int               `json:"quantity"`
	Available         bool              `json:"available"`
	UnavailableReason string            `json:"unavailable_reason,omitempty"`
	AddedAt           time.Time         `json:"added_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type cartDTO struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Items      []cartItemDTO `json:"items"`
	Converted  bool          `json:"converted"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func toCartDTO(cart *domain.Cart) cartDTO {
	items := cart.Items()
	dtos := make([]cartItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, cartItemDTO{
			ID:                item.ID().String(),
			ProductID:         item.ProductID().String(),
			Options:           item.Options().Values(),
			Quantity:          item.Quantity(),
			Available:         item.IsAvailable(),
			UnavailableReason: item.UnavailableReason(),
			AddedAt:           item.AddedAt(),
			UpdatedAt:         item.LastModifiedAt(),
		})
	}
	return cartDTO{
		ID:         cart.ID().String(),
		CustomerID: cart.CustomerID().String(),
		Items:      dtos,
		Converted:  cart.IsConverted(),
		CreatedAt:  cart.CreatedAt(),
		UpdatedAt:  cart.LastModifiedAt(),
	}
}

type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyDTO(m domain.Money) moneyDTO {
	return moneyDTO{Amount: m.Amount.String(), Currency: m.Currency}
}

type orderItemDTO struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	UnitPrice   moneyDTO          `json:"unit_price"`
	Quantity    int               `json:"quantity"`
	ItemAmount  moneyDTO          `json:"item_amount"`
	Options     map[string]string `json:"options,omitempty"`
}

type orderDTO struct {
	ID           string         `json:"id"`
	CustomerID   string         `json:"customer_id"`
	Status       string         `json:"status"`
	TotalAmount  moneyDTO       `json:"total_amount"`
	OrderMessage string         `json:"order_message,omitempty"`
	PaymentID    string         `json:"payment_id,omitempty"`
	OrderChannel string         `json:"order_channel,omitempty"`
	Items        []orderItemDTO `json:"items"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

func toOrderDTO(order *domain.Order) orderDTO {
	items := order.Items()
	dtos := make([]orderItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, orderItemDTO{
			ID:          item.ID().String(),
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			UnitPrice:   toMoneyDTO(item.UnitPrice()),
			Quantity:    item.Quantity(),
			ItemAmount:  toMoneyDTO(item.ItemAmount()),
			Options:     item.Options().Values(),
		})
	}

	dto := orderDTO{
		ID:           order.ID().String(),
		CustomerID:   order.CustomerID().String(),
		Status:       string(order.Status()),
		TotalAmount:  toMoneyDTO(order.TotalAmount()),
		OrderMessage: order.OrderMessage(),
		PaymentID:    order.PaymentID().String(),
		OrderChannel: order.OrderChannel(),
		Items:        dtos,
		CreatedAt:    order.CreatedAt(),
		UpdatedAt:    order.LastModifiedAt(),
	}
	if completedAt := order.CompletedAt(); !completedAt.IsZero() {
		dto.CompletedAt = &completedAt
	}
	return dto
}
