package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type CreateCartRequestDTO struct {
	CustomerID string `json:"customer_id"`
}

type AddItemRequestDTO struct {
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Options   map[string]string `json:"options,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type MergeRequestDTO struct {
	TargetCartID string `json:"target_cart_id"`
	SourceCartID string `json:"source_cart_id"`
	DeleteSource bool   `json:"delete_source"`
}

func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req CreateCartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id is required")
		return
	}

	cart, err := h.carts.CreateCart(r.Context(), domain.CustomerID(req.CustomerID))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCartDTO(cart))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := domain.CartID(chi.URLParam(r, "cartID"))

	cart, err := h.carts.GetCart(r.Context(), cartID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

// GetActiveCart looks up the customer's most recently touched open cart.
func (h *CartHandler) GetActiveCart(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id query parameter is required")
		return
	}

	cart, err := h.carts.GetActiveCart(r.Context(), domain.CustomerID(customerID))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID := domain.CartID(chi.URLParam(r, "cartID"))

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < domain.MinQuantity || req.Quantity > domain.MaxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	cart, err := h.carts.AddItem(r.Context(), cartID,
		domain.ProductID(req.ProductID), req.Quantity, domain.NewProductOptions(req.Options))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCartDTO(cart))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID := domain.CartID(chi.URLParam(r, "cartID"))
	itemID := domain.CartItemID(chi.URLParam(r, "itemID"))

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < domain.MinQuantity || req.Quantity > domain.MaxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), cartID, itemID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := domain.CartID(chi.URLParam(r, "cartID"))
	itemID := domain.CartItemID(chi.URLParam(r, "itemID"))

	cart, err := h.carts.RemoveItem(r.Context(), cartID, itemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID := domain.CartID(chi.URLParam(r, "cartID"))

	cart, err := h.carts.ClearCart(r.Context(), cartID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.TargetCartID == "" || req.SourceCartID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "target_cart_id and source_cart_id are required")
		return
	}

	cart, err := h.carts.Merge(r.Context(),
		domain.CartID(req.TargetCartID), domain.CartID(req.SourceCartID), req.DeleteSource)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

func (h *CartHandler) GetTotal(w http.ResponseWriter, r *http.Request) {
	cartID := domain.CartID(chi.URLParam(r, "cartID"))

	total, err := h.carts.CalculateTotal(r.Context(), cartID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toMoneyDTO(total))
}

func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	cartID := domain.CartID(chi.URLParam(r, "cartID"))

	if err := h.carts.DeleteCart(r.Context(), cartID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
