package domain

import "strings"

// OrderItem is a priced, named, quantity-fixed line snapshotted at
// order-creation time. Later catalog changes never affect it.
type OrderItem struct {
	id          OrderItemID
	orderID     OrderID
	productID   ProductID
	productName string
	unitPrice   Money
	quantity    int
	itemAmount  Money
	options     ProductOptions
}

func NewOrderItem(
	id OrderItemID,
	orderID OrderID,
	productID ProductID,
	productName string,
	unitPrice Money,
	quantity int,
	options ProductOptions,
) (*OrderItem, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, newError(CodeInvalidCartState, "order item product name cannot be blank")
	}
	if unitPrice.Amount.IsNegative() {
		return nil, newError(CodeInvalidCartState, "order item unit price cannot be negative")
	}
	if quantity < 1 {
		return nil, newError(CodeInvalidQuantity, "order item quantity must be at least 1, but was %d", quantity)
	}
	return &OrderItem{
		id:          id,
		orderID:     orderID,
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
		itemAmount:  unitPrice.Mul(quantity),
		options:     options,
	}, nil
}

func (i *OrderItem) ID() OrderItemID         { return i.id }
func (i *OrderItem) OrderID() OrderID        { return i.orderID }
func (i *OrderItem) ProductID() ProductID    { return i.productID }
func (i *OrderItem) ProductName() string     { return i.productName }
func (i *OrderItem) UnitPrice() Money        { return i.unitPrice }
func (i *OrderItem) Quantity() int           { return i.quantity }
func (i *OrderItem) Options() ProductOptions { return i.options }

// ItemAmount is unit price times quantity, fixed at construction.
func (i *OrderItem) ItemAmount() Money { return i.itemAmount }
