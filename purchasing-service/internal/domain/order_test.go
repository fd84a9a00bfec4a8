package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderItem(t *testing.T, productID ProductID, price Money, quantity int) *OrderItem {
	t.Helper()
	item, err := NewOrderItem(NewOrderItemID(), "", productID, "Product "+productID.String(), price, quantity, NoOptions())
	require.NoError(t, err)
	return item
}

func newPendingOrder(t *testing.T, clock Clock) *Order {
	t.Helper()
	items := []*OrderItem{
		newTestOrderItem(t, "P1", krw(1000), 2),
		newTestOrderItem(t, "P2", krw(500), 1),
	}
	order, err := NewOrder(NewOrderID(), "customer-1", items, "leave at the door", "WEB", clock)
	require.NoError(t, err)
	return order
}

func TestNewOrder_TotalIsSumOfItemAmounts(t *testing.T) {
	order := newPendingOrder(t, newFakeClock())

	assert.Equal(t, OrderStatusPending, order.Status())
	assert.True(t, order.TotalAmount().Equal(krw(2500)))
	assert.Equal(t, "leave at the door", order.OrderMessage())
	assert.Equal(t, "WEB", order.OrderChannel())
}

func TestNewOrder_RequiresItems(t *testing.T) {
	_, err := NewOrder(NewOrderID(), "customer-1", nil, "", "WEB", newFakeClock())
	assert.True(t, errors.Is(err, ErrInvalidCartState))
}

func TestNewOrderItem_Validation(t *testing.T) {
	_, err := NewOrderItem(NewOrderItemID(), "", "P1", "  ", krw(100), 1, NoOptions())
	assert.True(t, errors.Is(err, ErrInvalidCartState), "blank product name")

	_, err = NewOrderItem(NewOrderItemID(), "", "P1", "Widget", krw(-100), 1, NoOptions())
	assert.True(t, errors.Is(err, ErrInvalidCartState), "negative unit price")

	_, err = NewOrderItem(NewOrderItemID(), "", "P1", "Widget", krw(100), 0, NoOptions())
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
}

func TestOrder_HappyPathToRefunded(t *testing.T) {
	clock := newFakeClock()
	order := newPendingOrder(t, clock)

	require.NoError(t, order.ConfirmPayment("pay-1"))
	assert.Equal(t, OrderStatusPaid, order.Status())
	assert.Equal(t, PaymentID("pay-1"), order.PaymentID())

	require.NoError(t, order.ConfirmPurchase())
	assert.Equal(t, OrderStatusCompleted, order.Status())
	assert.Equal(t, clock.Now(), order.CompletedAt())

	clock.Advance(24 * time.Hour)
	require.NoError(t, order.RequestRefund())
	assert.Equal(t, OrderStatusRefundInProgress, order.Status())

	require.NoError(t, order.Refund())
	assert.Equal(t, OrderStatusRefunded, order.Status())
	assert.True(t, order.Status().IsTerminal())
}

func TestOrder_ConfirmPayment_RequiresPaymentID(t *testing.T) {
	order := newPendingOrder(t, newFakeClock())
	err := order.ConfirmPayment("")
	assert.True(t, errors.Is(err, ErrInvalidOrderTransition))
	assert.Equal(t, OrderStatusPending, order.Status())
}

func TestOrder_FailPayment(t *testing.T) {
	order := newPendingOrder(t, newFakeClock())
	require.NoError(t, order.FailPayment())
	assert.Equal(t, OrderStatusPaymentFailed, order.Status())

	// A failed order can still be canceled, but not re-paid.
	err := order.ConfirmPayment("pay-1")
	assert.True(t, errors.Is(err, ErrInvalidOrderTransition))
	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCanceled, order.Status())
}

func TestOrder_Cancel_FromPaidAndCompleted(t *testing.T) {
	clock := newFakeClock()

	paid := newPendingOrder(t, clock)
	require.NoError(t, paid.ConfirmPayment("pay-1"))
	require.NoError(t, paid.Cancel())
	assert.Equal(t, OrderStatusCanceled, paid.Status())

	completed := newPendingOrder(t, clock)
	require.NoError(t, completed.ConfirmPayment("pay-2"))
	require.NoError(t, completed.ConfirmPurchase())
	require.NoError(t, completed.Cancel())
	assert.Equal(t, OrderStatusCanceled, completed.Status())

	pending := newPendingOrder(t, clock)
	err := pending.Cancel()
	assert.True(t, errors.Is(err, ErrInvalidOrderTransition), "pending orders fail payment or go out of stock, they are not canceled")
}

func TestOrder_MarkOutOfStock(t *testing.T) {
	clock := newFakeClock()

	pending := newPendingOrder(t, clock)
	require.NoError(t, pending.MarkOutOfStock())
	assert.Equal(t, OrderStatusOutOfStock, pending.Status())
	assert.True(t, pending.Status().IsTerminal())

	completed := newPendingOrder(t, clock)
	require.NoError(t, completed.ConfirmPayment("pay-1"))
	require.NoError(t, completed.ConfirmPurchase())
	err := completed.MarkOutOfStock()
	assert.True(t, errors.Is(err, ErrInvalidOrderTransition))
}

func TestOrder_RequestRefund_WindowEnforced(t *testing.T) {
	clock := newFakeClock()
	order := newPendingOrder(t, clock)
	require.NoError(t, order.ConfirmPayment("pay-1"))
	require.NoError(t, order.ConfirmPurchase())

	clock.Advance(RefundWindow + time.Second)
	err := order.RequestRefund()
	assert.True(t, errors.Is(err, ErrRefundWindowExpired))
	assert.Equal(t, OrderStatusCompleted, order.Status())
}

func TestOrder_RequestRefund_ExactlyAtWindowBoundary(t *testing.T) {
	clock := newFakeClock()
	order := newPendingOrder(t, clock)
	require.NoError(t, order.ConfirmPayment("pay-1"))
	require.NoError(t, order.ConfirmPurchase())

	clock.Advance(RefundWindow)
	require.NoError(t, order.RequestRefund())
	assert.Equal(t, OrderStatusRefundInProgress, order.Status())
}

func TestOrder_InvalidTransitionsFromPending(t *testing.T) {
	order := newPendingOrder(t, newFakeClock())

	assert.True(t, errors.Is(order.ConfirmPurchase(), ErrInvalidOrderTransition))
	assert.True(t, errors.Is(order.RequestRefund(), ErrInvalidOrderTransition))
	assert.True(t, errors.Is(order.Refund(), ErrInvalidOrderTransition))
	assert.Equal(t, OrderStatusPending, order.Status())
}

func TestOrder_TerminalStatesRejectEverything(t *testing.T) {
	clock := newFakeClock()
	order := newPendingOrder(t, clock)
	require.NoError(t, order.ConfirmPayment("pay-1"))
	require.NoError(t, order.ConfirmPurchase())
	require.NoError(t, order.RequestRefund())
	require.NoError(t, order.Refund())

	assert.True(t, errors.Is(order.ConfirmPayment("pay-2"), ErrInvalidOrderTransition))
	assert.True(t, errors.Is(order.FailPayment(), ErrInvalidOrderTransition))
	assert.True(t, errors.Is(order.Cancel(), ErrInvalidOrderTransition))
	assert.True(t, errors.Is(order.MarkOutOfStock(), ErrInvalidOrderTransition))
	assert.True(t, errors.Is(order.ConfirmPurchase(), ErrInvalidOrderTransition))
	assert.True(t, errors.Is(order.RequestRefund(), ErrInvalidOrderTransition))
	assert.True(t, errors.Is(order.Refund(), ErrInvalidOrderTransition))
}

func TestRestoreOrder(t *testing.T) {
	clock := newFakeClock()
	items := []*OrderItem{newTestOrderItem(t, "P1", krw(1000), 1)}
	createdAt := clock.Now().Add(-48 * time.Hour)
	completedAt := clock.Now().Add(-24 * time.Hour)

	order := RestoreOrder("order-1", "customer-1", items, OrderStatusCompleted,
		krw(1000), "", "pay-1", "WEB", createdAt, completedAt, completedAt, clock)

	assert.Equal(t, OrderStatusCompleted, order.Status())
	require.NoError(t, order.RequestRefund(), "restored completion time drives the refund window")
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusRefunded.IsTerminal())
	assert.True(t, OrderStatusCanceled.IsTerminal())
	assert.True(t, OrderStatusOutOfStock.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusPaid.IsTerminal())
	assert.False(t, OrderStatusCompleted.IsTerminal())
	assert.False(t, OrderStatusPaymentFailed.IsTerminal())
	assert.False(t, OrderStatusRefundInProgress.IsTerminal())
}
