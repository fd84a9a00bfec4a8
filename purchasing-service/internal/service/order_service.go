package service

import (
	"context"
	"log"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/repository"
)

type OrderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	products  domain.ProductProvider
	inventory domain.InventoryReserver
	clock     domain.Clock
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products domain.ProductProvider,
	inventory domain.InventoryReserver,
	clock domain.Clock,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		inventory: inventory,
		clock:     clock,
	}
}

// CreateOrderFromCart snapshots the cart into a PENDING order. Stock is held
// through reservations while the order is written, so two orders cannot both
// claim the last unit between check and commit. The cart is marked converted
// in the same flow; if the order write fails, the cart conversion is undone.
func (s *OrderService) CreateOrderFromCart(
	ctx context.Context,
	cartID domain.CartID,
	orderMessage string,
	orderChannel string,
) (*domain.Order, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	items, err := s.buildOrderItems(ctx, cart)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reserveStock(ctx, cart)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(domain.NewOrderID(), cart.CustomerID(), items, orderMessage, orderChannel, s.clock)
	if err != nil {
		s.releaseReservations(ctx, reservations)
		return nil, err
	}

	events, err := orderEvent(EventOrderCreated, order, s.clock.Now())
	if err != nil {
		s.releaseReservations(ctx, reservations)
		return nil, err
	}

	if err := cart.ConvertToOrder(); err != nil {
		s.releaseReservations(ctx, reservations)
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		s.releaseReservations(ctx, reservations)
		return nil, err
	}

	if err := s.orders.Create(ctx, order, events); err != nil {
		s.releaseReservations(ctx, reservations)
		s.unconvertCart(ctx, cart)
		return nil, err
	}

	for _, reservation := range reservations {
		if err := s.inventory.Confirm(ctx, reservation.ReservationID); err != nil {
			log.Printf("failed to confirm reservation %s: %v", reservation.ReservationID, err)
		}
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, customerID domain.CustomerID) ([]*domain.Order, error) {
	return s.orders.FindByCustomerID(ctx, customerID)
}

func (s *OrderService) ConfirmPayment(ctx context.Context, orderID domain.OrderID, paymentID domain.PaymentID) (*domain.Order, error) {
	return s.transition(ctx, orderID, EventOrderPaymentConfirmed, func(order *domain.Order) error {
		return order.ConfirmPayment(paymentID)
	})
}

// FailPayment marks the order failed and gives the customer their cart lines
// back in a fresh cart, so a declined card does not cost them the basket.
func (s *OrderService) FailPayment(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, EventOrderPaymentFailed, func(order *domain.Order) error {
		return order.FailPayment()
	})
	if err != nil {
		return nil, err
	}
	s.restoreCartFromOrder(ctx, order)
	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	return s.transition(ctx, orderID, EventOrderCanceled, func(order *domain.Order) error {
		return order.Cancel()
	})
}

// MarkOutOfStock abandons the order because stock ran out downstream, and
// restores the cart so the customer can adjust quantities and retry.
func (s *OrderService) MarkOutOfStock(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, EventOrderOutOfStock, func(order *domain.Order) error {
		return order.MarkOutOfStock()
	})
	if err != nil {
		return nil, err
	}
	s.restoreCartFromOrder(ctx, order)
	return order, nil
}

func (s *OrderService) ConfirmPurchase(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	return s.transition(ctx, orderID, EventOrderCompleted, func(order *domain.Order) error {
		return order.ConfirmPurchase()
	})
}

func (s *OrderService) RequestRefund(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	return s.transition(ctx, orderID, EventOrderRefundRequested, func(order *domain.Order) error {
		return order.RequestRefund()
	})
}

func (s *OrderService) Refund(ctx context.Context, orderID domain.OrderID) (*domain.Order, error) {
	return s.transition(ctx, orderID, EventOrderRefunded, func(order *domain.Order) error {
		return order.Refund()
	})
}

func (s *OrderService) transition(
	ctx context.Context,
	orderID domain.OrderID,
	eventType string,
	op func(*domain.Order) error,
) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := op(order); err != nil {
		return nil, err
	}
	events, err := orderEvent(eventType, order, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order, events); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) buildOrderItems(ctx context.Context, cart *domain.Cart) ([]*domain.OrderItem, error) {
	lines := cart.Items()
	items := make([]*domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.GetProduct(ctx, line.ProductID())
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, domain.ErrProductNotFound
		}
		item, err := domain.NewOrderItem(
			domain.NewOrderItemID(),
			"",
			line.ProductID(),
			product.Name,
			product.Price,
			line.Quantity(),
			line.Options(),
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) reserveStock(ctx context.Context, cart *domain.Cart) ([]domain.StockReservation, error) {
	var reservations []domain.StockReservation
	for _, line := range cart.Items() {
		reservation, err := s.inventory.Reserve(ctx, line.ProductID(), line.Quantity())
		if err != nil {
			s.releaseReservations(ctx, reservations)
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, nil
}

func (s *OrderService) releaseReservations(ctx context.Context, reservations []domain.StockReservation) {
	for _, reservation := range reservations {
		if err := s.inventory.Release(ctx, reservation.ReservationID); err != nil {
			log.Printf("failed to release reservation %s: %v", reservation.ReservationID, err)
		}
	}
}

// unconvertCart rolls the converted flag back after a failed order write.
func (s *OrderService) unconvertCart(ctx context.Context, cart *domain.Cart) {
	restored := domain.RestoreCart(cart.ID(), cart.CustomerID(), cart.Items(),
		cart.CreatedAt(), cart.LastModifiedAt(), false, s.clock)
	if err := s.carts.Save(ctx, restored); err != nil {
		log.Printf("failed to restore cart %s after order failure: %v", cart.ID(), err)
	}
}

// restoreCartFromOrder rebuilds cart lines from a failed order's snapshot.
func (s *OrderService) restoreCartFromOrder(ctx context.Context, order *domain.Order) {
	items := make([]*domain.CartItem, 0, len(order.Items()))
	for _, line := range order.Items() {
		item, err := domain.NewCartItem(domain.NewCartItemID(), line.ProductID(), line.Options(), line.Quantity(), s.clock)
		if err != nil {
			log.Printf("failed to rebuild cart line for product %s: %v", line.ProductID(), err)
			continue
		}
		items = append(items, item)
	}
	cart := domain.RestoreFromFailedOrder(domain.NewCartID(), order.CustomerID(), items, s.clock)
	if err := s.carts.Save(ctx, cart); err != nil {
		log.Printf("failed to save restored cart for order %s: %v", order.ID(), err)
	}
}
