package domain

import "github.com/oklog/ulid/v2"

// Aggregate and entity identifiers are ULIDs: 26 characters, globally unique
// and lexicographically sortable by creation time, which keeps index pages in
// both MongoDB and Postgres append-mostly.

type CartID string

func NewCartID() CartID { return CartID(ulid.Make().String()) }

func (id CartID) String() string { return string(id) }

type CartItemID string

func NewCartItemID() CartItemID { return CartItemID(ulid.Make().String()) }

func (id CartItemID) String() string { return string(id) }

type OrderID string

func NewOrderID() OrderID { return OrderID(ulid.Make().String()) }

func (id OrderID) String() string { return string(id) }

type OrderItemID string

func NewOrderItemID() OrderItemID { return OrderItemID(ulid.Make().String()) }

func (id OrderItemID) String() string { return string(id) }

// CustomerID and ProductID are issued by other services; we treat them as
// opaque strings.
type CustomerID string

func (id CustomerID) String() string { return string(id) }

type ProductID string

func (id ProductID) String() string { return string(id) }

// PaymentID is assigned by the payment provider when a payment is confirmed.
type PaymentID string

func (id PaymentID) String() string { return string(id) }

func (id PaymentID) IsZero() bool { return id == "" }
