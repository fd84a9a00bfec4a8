package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

func TestProductClient_GetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/P1", r.URL.Path)
		json.NewEncoder(w).Encode(productResponse{
			ID:              "P1",
			Name:            "Widget",
			Price:           "1500.00",
			Currency:        "KRW",
			RequiredOptions: []string{"size"},
			Active:          true,
		})
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL, 5*time.Second)
	details, err := client.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProductID("P1"), details.ID)
	assert.Equal(t, "Widget", details.Name)
	assert.True(t, details.Price.Equal(krw(t, "1500")))
	assert.Equal(t, []string{"size"}, details.RequiredOptions)
	assert.True(t, details.Active)
}

func TestProductClient_GetProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errorResponse{Error: "product not found", Code: "PRODUCT_NOT_FOUND"})
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL, 5*time.Second)
	_, err := client.GetProduct(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestProductClient_GetPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/P1/price", r.URL.Path)
		json.NewEncoder(w).Encode(priceResponse{Price: "999.99", Currency: "KRW"})
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL, 5*time.Second)
	price, err := client.GetPrice(context.Background(), "P1")
	require.NoError(t, err)
	assert.True(t, price.Equal(krw(t, "999.99")))
}

func TestProductClient_CircuitBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewProductClient(srv.URL, 5*time.Second)
	for i := 0; i < 5; i++ {
		_, err := client.GetPrice(context.Background(), "P1")
		require.Error(t, err)
	}
	require.Equal(t, int32(5), calls.Load())

	// Breaker is open: the request never reaches the server.
	_, err := client.GetPrice(context.Background(), "P1")
	require.Error(t, err)
	assert.Equal(t, int32(5), calls.Load())
}

func TestInventoryClient_GetAvailableStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stock/P1", r.URL.Path)
		json.NewEncoder(w).Encode(stockResponse{ProductID: "P1", Available: 42})
	}))
	defer srv.Close()

	client := NewInventoryClient(srv.URL, 5*time.Second)
	available, err := client.GetAvailableStock(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 42, available)
}

func TestInventoryClient_Reserve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/reservations", r.URL.Path)

		var req reserveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "P1", req.ProductID)
		assert.Equal(t, 3, req.Quantity)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(reservationResponse{
			ReservationID: "res-1",
			ProductID:     req.ProductID,
			Quantity:      req.Quantity,
		})
	}))
	defer srv.Close()

	client := NewInventoryClient(srv.URL, 5*time.Second)
	reservation, err := client.Reserve(context.Background(), "P1", 3)
	require.NoError(t, err)
	assert.Equal(t, "res-1", reservation.ReservationID)
	assert.Equal(t, domain.ProductID("P1"), reservation.ProductID)
	assert.Equal(t, 3, reservation.Quantity)
}

func TestInventoryClient_Reserve_InsufficientStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{Error: "insufficient stock", Code: "INSUFFICIENT_STOCK"})
	}))
	defer srv.Close()

	client := NewInventoryClient(srv.URL, 5*time.Second)
	_, err := client.Reserve(context.Background(), "P1", 100)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestInventoryClient_ConfirmAndRelease(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewInventoryClient(srv.URL, 5*time.Second)
	require.NoError(t, client.Confirm(context.Background(), "res-1"))
	require.NoError(t, client.Release(context.Background(), "res-2"))
	assert.Equal(t, []string{
		"/api/v1/reservations/res-1/confirm",
		"/api/v1/reservations/res-2/release",
	}, paths)
}

func krw(t *testing.T, amount string) domain.Money {
	t.Helper()
	return domain.NewMoney(decimal.RequireFromString(amount), "KRW")
}
