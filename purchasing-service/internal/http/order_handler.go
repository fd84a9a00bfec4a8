package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type CreateOrderRequestDTO struct {
	CartID       string `json:"cart_id"`
	OrderMessage string `json:"order_message,omitempty"`
	OrderChannel string `json:"order_channel,omitempty"`
}

type ConfirmPaymentRequestDTO struct {
	PaymentID string `json:"payment_id"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CartID == "" {
		respondError(w, http.StatusBadRequest, "invalid_cart_id", "cart_id is required")
		return
	}

	order, err := h.orders.CreateOrderFromCart(r.Context(),
		domain.CartID(req.CartID), req.OrderMessage, req.OrderChannel)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderDTO(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := domain.OrderID(chi.URLParam(r, "orderID"))

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id query parameter is required")
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), domain.CustomerID(customerID))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	dtos := make([]orderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, toOrderDTO(order))
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	orderID := domain.OrderID(chi.URLParam(r, "orderID"))

	var req ConfirmPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentID == "" {
		respondError(w, http.StatusBadRequest, "invalid_payment_id", "payment_id is required")
		return
	}

	order, err := h.orders.ConfirmPayment(r.Context(), orderID, domain.PaymentID(req.PaymentID))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func (h *OrderHandler) FailPayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.FailPayment)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Cancel)
}

func (h *OrderHandler) MarkOutOfStock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.MarkOutOfStock)
}

func (h *OrderHandler) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.ConfirmPurchase)
}

func (h *OrderHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.RequestRefund)
}

func (h *OrderHandler) Refund(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Refund)
}

func (h *OrderHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, domain.OrderID) (*domain.Order, error),
) {
	orderID := domain.OrderID(chi.URLParam(r, "orderID"))

	order, err := op(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order))
}
