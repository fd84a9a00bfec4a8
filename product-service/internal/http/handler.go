package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/INNER-CIRCLE-ICD4/commerce/product-service/internal/domain"
	"github.com/INNER-CIRCLE-ICD4/commerce/product-service/internal/repository"
)

type Handler struct {
	repo repository.RepoInterface
}

func NewHandler(repo repository.RepoInterface) *Handler {
	return &Handler{repo: repo}
}

type productDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Price           string   `json:"price"`
	Currency        string   `json:"currency"`
	RequiredOptions []string `json:"required_options,omitempty"`
	Active          bool     `json:"active"`
}

type priceDTO struct {
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

type errorDTO struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func toProductDTO(p *domain.Product) productDTO {
	return productDTO{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price.String(),
		Currency:        p.Currency,
		RequiredOptions: p.RequiredOptions,
		Active:          p.Active,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrProductNotFound) {
		writeJSON(w, http.StatusNotFound, errorDTO{Error: "product not found", Code: "PRODUCT_NOT_FOUND"})
		return
	}
	log.Printf("Product request failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorDTO{Error: "internal error"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetAllProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]productDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (h *Handler) GetPrice(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, priceDTO{Price: product.Price.String(), Currency: product.Currency})
}

func NewRouter(handler *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/{productID}", handler.GetProduct)
		r.Get("/{productID}/price", handler.GetPrice)
	})

	return r
}
