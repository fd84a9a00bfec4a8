package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

// InventoryClient talks to the inventory service over HTTP. It satisfies
// domain.InventoryReserver.
type InventoryClient struct {
	http *httpClient
}

func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{http: newHTTPClient("inventory-service", baseURL, timeout)}
}

type stockResponse struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
}

type reserveRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type reservationResponse struct {
	ReservationID string `json:"reservation_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
}

func (c *InventoryClient) GetAvailableStock(ctx context.Context, productID domain.ProductID) (int, error) {
	url := fmt.Sprintf("%s/api/v1/stock/%s", c.http.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build stock request: %w", err)
	}

	var body stockResponse
	status, err := c.http.do(req, &body)
	if status == http.StatusNotFound {
		return 0, domain.ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}
	return body.Available, nil
}

func (c *InventoryClient) Reserve(ctx context.Context, productID domain.ProductID, quantity int) (domain.StockReservation, error) {
	payload, err := json.Marshal(reserveRequest{ProductID: productID.String(), Quantity: quantity})
	if err != nil {
		return domain.StockReservation{}, fmt.Errorf("marshal reserve request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/reservations", c.http.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return domain.StockReservation{}, fmt.Errorf("build reserve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var body reservationResponse
	status, err := c.http.do(req, &body)
	switch status {
	case http.StatusNotFound:
		return domain.StockReservation{}, domain.ErrProductNotFound
	case http.StatusConflict:
		return domain.StockReservation{}, domain.ErrInsufficientStock
	}
	if err != nil {
		return domain.StockReservation{}, err
	}

	return domain.StockReservation{
		ReservationID: body.ReservationID,
		ProductID:     domain.ProductID(body.ProductID),
		Quantity:      body.Quantity,
	}, nil
}

func (c *InventoryClient) Confirm(ctx context.Context, reservationID string) error {
	return c.postReservationAction(ctx, reservationID, "confirm")
}

func (c *InventoryClient) Release(ctx context.Context, reservationID string) error {
	return c.postReservationAction(ctx, reservationID, "release")
}

func (c *InventoryClient) postReservationAction(ctx context.Context, reservationID, action string) error {
	url := fmt.Sprintf("%s/api/v1/reservations/%s/%s", c.http.baseURL, reservationID, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}

	status, err := c.http.do(req, nil)
	if status == http.StatusNotFound {
		return fmt.Errorf("reservation %s not found", reservationID)
	}
	return err
}
