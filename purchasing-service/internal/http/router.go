package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDMiddleware echoes the request id back to the caller so failures
// can be correlated across services.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func NewRouter(cartHandler *CartHandler, orderHandler *OrderHandler, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", cartHandler.CreateCart)
			r.Get("/", cartHandler.GetActiveCart)
			r.Post("/merge", cartHandler.Merge)
			r.Route("/{cartID}", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.DeleteCart)
				r.Get("/total", cartHandler.GetTotal)
				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items", cartHandler.ClearCart)
				r.Put("/items/{itemID}", cartHandler.UpdateQuantity)
				r.Delete("/items/{itemID}", cartHandler.RemoveItem)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", orderHandler.GetOrder)
				r.Post("/payment-confirm", orderHandler.ConfirmPayment)
				r.Post("/payment-fail", orderHandler.FailPayment)
				r.Post("/cancel", orderHandler.Cancel)
				r.Post("/out-of-stock", orderHandler.MarkOutOfStock)
				r.Post("/confirm-purchase", orderHandler.ConfirmPurchase)
				r.Post("/refund-request", orderHandler.RequestRefund)
				r.Post("/refund", orderHandler.Refund)
			})
		})
	})

	return r
}
