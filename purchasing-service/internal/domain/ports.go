package domain

import "context"

// PriceProvider resolves the current selling price of a product. Carts price
// their lines live through this port instead of storing prices.
type PriceProvider interface {
	GetPrice(ctx context.Context, productID ProductID) (Money, error)
}

// ProductDetails is the catalog snapshot orders are built from.
type ProductDetails struct {
	ID              ProductID
	Name            string
	Price           Money
	RequiredOptions []string
	Active          bool
}

// ProductProvider exposes the catalog data the purchasing flows need.
type ProductProvider interface {
	PriceProvider
	GetProduct(ctx context.Context, productID ProductID) (ProductDetails, error)
}

// InventoryChecker answers how much stock is currently available for sale.
type InventoryChecker interface {
	GetAvailableStock(ctx context.Context, productID ProductID) (int, error)
}

// StockReservation is a short-lived hold placed while an order is created.
type StockReservation struct {
	ReservationID string
	ProductID     ProductID
	Quantity      int
}

// InventoryReserver places, confirms and releases stock holds so order
// creation does not oversell between check and commit.
type InventoryReserver interface {
	InventoryChecker
	Reserve(ctx context.Context, productID ProductID, quantity int) (StockReservation, error)
	Confirm(ctx context.Context, reservationID string) error
	Release(ctx context.Context, reservationID string) error
}
