package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

// ProductClient talks to the product service over HTTP. It satisfies
// domain.ProductProvider.
type ProductClient struct {
	http *httpClient
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{http: newHTTPClient("product-service", baseURL, timeout)}
}

type productResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           string   `json:"price"`
	Currency        string   `json:"currency"`
	RequiredOptions []string `json:"required_options,omitempty"`
	Active          bool     `json:"active"`
}

type priceResponse struct {
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

func (c *ProductClient) GetProduct(ctx context.Context, productID domain.ProductID) (domain.ProductDetails, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s", c.http.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ProductDetails{}, fmt.Errorf("build product request: %w", err)
	}

	var body productResponse
	status, err := c.http.do(req, &body)
	if status == http.StatusNotFound {
		return domain.ProductDetails{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.ProductDetails{}, err
	}

	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return domain.ProductDetails{}, fmt.Errorf("parse product price %q: %w", body.Price, err)
	}
	return domain.ProductDetails{
		ID:              domain.ProductID(body.ID),
		Name:            body.Name,
		Price:           domain.NewMoney(price, body.Currency),
		RequiredOptions: body.RequiredOptions,
		Active:          body.Active,
	}, nil
}

func (c *ProductClient) GetPrice(ctx context.Context, productID domain.ProductID) (domain.Money, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s/price", c.http.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Money{}, fmt.Errorf("build price request: %w", err)
	}

	var body priceResponse
	status, err := c.http.do(req, &body)
	if status == http.StatusNotFound {
		return domain.Money{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Money{}, err
	}

	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return domain.Money{}, fmt.Errorf("parse price %q: %w", body.Price, err)
	}
	return domain.NewMoney(price, body.Currency), nil
}
