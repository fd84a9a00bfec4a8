package domain

import (
	"strings"
	"time"
)

// OrderStatus is the order lifecycle state machine:
//
//	PENDING → PAID → COMPLETED → REFUND_IN_PROGRESS → REFUNDED
//
// with side branches PENDING → PAYMENT_FAILED, {PAID, COMPLETED,
// PAYMENT_FAILED} → CANCELED and {PENDING, PAID} → OUT_OF_STOCK.
// REFUNDED, CANCELED and OUT_OF_STOCK are terminal.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusPaid             OrderStatus = "PAID"
	OrderStatusCompleted        OrderStatus = "COMPLETED"
	OrderStatusCanceled         OrderStatus = "CANCELED"
	OrderStatusPaymentFailed    OrderStatus = "PAYMENT_FAILED"
	OrderStatusOutOfStock       OrderStatus = "OUT_OF_STOCK"
	OrderStatusRefundInProgress OrderStatus = "REFUND_IN_PROGRESS"
	OrderStatusRefunded         OrderStatus = "REFUNDED"
)

// IsTerminal reports whether no further transition can leave the status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusRefunded, OrderStatusCanceled, OrderStatusOutOfStock:
		return true
	}
	return false
}

// RefundWindow is how long after completion a refund may still be requested.
const RefundWindow = 7 * 24 * time.Hour

// Order is the order aggregate root. Its item list is fixed at creation;
// everything that changes afterwards changes through the status machine.
type Order struct {
	id             OrderID
	customerID     CustomerID
	items          []*OrderItem
	status         OrderStatus
	totalAmount    Money
	orderMessage   string
	paymentID      PaymentID
	orderChannel   string
	createdAt      time.Time
	lastModifiedAt time.Time
	completedAt    time.Time
	clock          Clock
}

// NewOrder creates an order in PENDING with its total computed once from the
// snapshotted item amounts. At least one item is required.
func NewOrder(
	id OrderID,
	customerID CustomerID,
	items []*OrderItem,
	orderMessage string,
	orderChannel string,
	clock Clock,
) (*Order, error) {
	if len(items) == 0 {
		return nil, newError(CodeInvalidCartState, "order must contain at least one item")
	}
	cp := make([]*OrderItem, len(items))
	copy(cp, items)

	now := clock.Now()
	o := &Order{
		id:             id,
		customerID:     customerID,
		items:          cp,
		status:         OrderStatusPending,
		orderMessage:   orderMessage,
		orderChannel:   orderChannel,
		createdAt:      now,
		lastModifiedAt: now,
		clock:          clock,
	}
	total, err := o.calculateTotal()
	if err != nil {
		return nil, err
	}
	o.totalAmount = total
	return o, nil
}

// RestoreOrder rebuilds an order from persisted state.
func RestoreOrder(
	id OrderID,
	customerID CustomerID,
	items []*OrderItem,
	status OrderStatus,
	totalAmount Money,
	orderMessage string,
	paymentID PaymentID,
	orderChannel string,
	createdAt, lastModifiedAt, completedAt time.Time,
	clock Clock,
) *Order {
	cp := make([]*OrderItem, len(items))
	copy(cp, items)
	return &Order{
		id:             id,
		customerID:     customerID,
		items:          cp,
		status:         status,
		totalAmount:    totalAmount,
		orderMessage:   orderMessage,
		paymentID:      paymentID,
		orderChannel:   orderChannel,
		createdAt:      createdAt,
		lastModifiedAt: lastModifiedAt,
		completedAt:    completedAt,
		clock:          clock,
	}
}

func (o *Order) ID() OrderID               { return o.id }
func (o *Order) CustomerID() CustomerID    { return o.customerID }
func (o *Order) Status() OrderStatus       { return o.status }
func (o *Order) TotalAmount() Money        { return o.totalAmount }
func (o *Order) OrderMessage() string      { return o.orderMessage }
func (o *Order) PaymentID() PaymentID      { return o.paymentID }
func (o *Order) OrderChannel() string      { return o.orderChannel }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) LastModifiedAt() time.Time { return o.lastModifiedAt }
func (o *Order) CompletedAt() time.Time    { return o.completedAt }

// Items returns a read-only view of the order lines.
func (o *Order) Items() []*OrderItem {
	cp := make([]*OrderItem, len(o.items))
	copy(cp, o.items)
	return cp
}

// ConfirmPayment moves PENDING → PAID and records the payment id.
func (o *Order) ConfirmPayment(paymentID PaymentID) error {
	if err := o.guard(OrderStatusPending); err != nil {
		return err
	}
	if paymentID.IsZero() {
		return newError(CodeInvalidOrderTransition, "payment id is required to confirm payment")
	}
	o.status = OrderStatusPaid
	o.paymentID = paymentID
	o.touch()
	return nil
}

// FailPayment moves PENDING → PAYMENT_FAILED.
func (o *Order) FailPayment() error {
	if err := o.guard(OrderStatusPending); err != nil {
		return err
	}
	o.status = OrderStatusPaymentFailed
	o.touch()
	return nil
}

// Cancel moves {PAID, COMPLETED, PAYMENT_FAILED} → CANCELED.
func (o *Order) Cancel() error {
	if err := o.guard(OrderStatusPaid, OrderStatusCompleted, OrderStatusPaymentFailed); err != nil {
		return err
	}
	o.status = OrderStatusCanceled
	o.touch()
	return nil
}

// MarkOutOfStock moves {PENDING, PAID} → OUT_OF_STOCK.
func (o *Order) MarkOutOfStock() error {
	if err := o.guard(OrderStatusPending, OrderStatusPaid); err != nil {
		return err
	}
	o.status = OrderStatusOutOfStock
	o.touch()
	return nil
}

// ConfirmPurchase moves PAID → COMPLETED and stamps the completion time the
// refund window is measured from.
func (o *Order) ConfirmPurchase() error {
	if err := o.guard(OrderStatusPaid); err != nil {
		return err
	}
	o.status = OrderStatusCompleted
	o.completedAt = o.clock.Now()
	o.touch()
	return nil
}

// RequestRefund moves COMPLETED → REFUND_IN_PROGRESS. Besides the state
// guard there is a time-boxed business rule: the refund must be requested
// within RefundWindow of completion.
func (o *Order) RequestRefund() error {
	if err := o.guard(OrderStatusCompleted); err != nil {
		return err
	}
	if o.completedAt.IsZero() || o.clock.Now().Sub(o.completedAt) > RefundWindow {
		return newError(CodeRefundWindowExpired,
			"refund can only be requested within %d days of completion", int(RefundWindow.Hours()/24))
	}
	o.status = OrderStatusRefundInProgress
	o.touch()
	return nil
}

// Refund moves REFUND_IN_PROGRESS → REFUNDED.
func (o *Order) Refund() error {
	if err := o.guard(OrderStatusRefundInProgress); err != nil {
		return err
	}
	o.status = OrderStatusRefunded
	o.touch()
	return nil
}

func (o *Order) calculateTotal() (Money, error) {
	total := ZeroMoney()
	var err error
	for _, item := range o.items {
		total, err = total.Add(item.ItemAmount())
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

func (o *Order) guard(allowed ...OrderStatus) error {
	for _, s := range allowed {
		if o.status == s {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return newError(CodeInvalidOrderTransition,
		"operation requires status %s, but order is %s", strings.Join(names, " or "), o.status)
}

func (o *Order) touch() {
	o.lastModifiedAt = o.clock.Now()
}
