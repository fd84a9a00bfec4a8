package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/INNER-CIRCLE-ICD4/commerce/inventory-service/internal/domain"
	"github.com/INNER-CIRCLE-ICD4/commerce/inventory-service/internal/store"
)

type Handler struct {
	store store.InventoryStore
}

func NewHandler(inventoryStore store.InventoryStore) *Handler {
	return &Handler{store: inventoryStore}
}

type stockDTO struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
}

type reserveRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type reservationDTO struct {
	ReservationID string `json:"reservation_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	Status        string `json:"status"`
}

type errorDTO struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, errorDTO{Error: "product not found", Code: "PRODUCT_NOT_FOUND"})
	case errors.Is(err, store.ErrReservationNotFound):
		writeJSON(w, http.StatusNotFound, errorDTO{Error: "reservation not found", Code: "RESERVATION_NOT_FOUND"})
	case errors.Is(err, store.ErrInsufficientStock):
		writeJSON(w, http.StatusConflict, errorDTO{Error: "insufficient stock", Code: "INSUFFICIENT_STOCK"})
	case errors.Is(err, store.ErrInvalidStatus), errors.Is(err, store.ErrReservationExpired):
		writeJSON(w, http.StatusConflict, errorDTO{Error: err.Error(), Code: "INVALID_RESERVATION_STATE"})
	default:
		log.Printf("Inventory request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorDTO{Error: "internal error"})
	}
}

func toReservationDTO(r *domain.Reservation) reservationDTO {
	return reservationDTO{
		ReservationID: r.ID,
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		Status:        string(r.Status),
	}
}

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.store.GetStock(chi.URLParam(r, "productID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stockDTO{ProductID: stock.ProductID, Available: stock.Available()})
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req reserveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: "invalid request body"})
		return
	}
	if req.ProductID == "" || req.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: "product_id and a positive quantity are required"})
		return
	}

	reservation, err := h.store.Reserve(req.ProductID, req.Quantity)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationDTO(reservation))
}

func (h *Handler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Confirm(chi.URLParam(r, "reservationID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func (h *Handler) ReleaseReservation(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Release(chi.URLParam(r, "reservationID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "released"})
}

func NewRouter(handler *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/v1/stock/{productID}", handler.GetStock)
	r.Route("/api/v1/reservations", func(r chi.Router) {
		r.Post("/", handler.CreateReservation)
		r.Post("/{reservationID}/confirm", handler.ConfirmReservation)
		r.Post("/{reservationID}/release", handler.ReleaseReservation)
	})

	return r
}
