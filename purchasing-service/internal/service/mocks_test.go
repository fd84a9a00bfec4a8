package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/cache"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/repository"
)

type mockCartRepository struct {
	m       sync.RWMutex
	carts   map[domain.CartID]*domain.Cart
	findErr error
	saveErr error
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{carts: make(map[domain.CartID]*domain.Cart)}
}

func (m *mockCartRepository) FindByID(_ context.Context, id domain.CartID) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	cart, ok := m.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) FindActiveByCustomerID(_ context.Context, customerID domain.CustomerID) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	for _, cart := range m.carts {
		if cart.CustomerID() == customerID && !cart.IsConverted() {
			return cart, nil
		}
	}
	return nil, domain.ErrCartNotFound
}

func (m *mockCartRepository) Save(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[cart.ID()] = cart
	return nil
}

func (m *mockCartRepository) Delete(_ context.Context, id domain.CartID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.carts[id]; !ok {
		return domain.ErrCartNotFound
	}
	delete(m.carts, id)
	return nil
}

func (m *mockCartRepository) get(id domain.CartID) *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.carts[id]
}

type mockCache struct {
	m      sync.RWMutex
	carts  map[domain.CartID]*domain.Cart
	getErr error
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[domain.CartID]*domain.Cart)}
}

func (m *mockCache) Get(_ context.Context, cartID domain.CartID) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return cart, nil
}

func (m *mockCache) Set(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[cart.ID()] = cart
	return nil
}

func (m *mockCache) Delete(_ context.Context, cartID domain.CartID) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, cartID)
	return nil
}

func (m *mockCache) get(cartID domain.CartID) *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.carts[cartID]
}

type mockProductProvider struct {
	products map[domain.ProductID]domain.ProductDetails
	err      error
}

func (m *mockProductProvider) GetProduct(_ context.Context, productID domain.ProductID) (domain.ProductDetails, error) {
	if m.err != nil {
		return domain.ProductDetails{}, m.err
	}
	product, ok := m.products[productID]
	if !ok {
		return domain.ProductDetails{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductProvider) GetPrice(ctx context.Context, productID domain.ProductID) (domain.Money, error) {
	product, err := m.GetProduct(ctx, productID)
	if err != nil {
		return domain.Money{}, err
	}
	return product.Price, nil
}

type mockInventory struct {
	m          sync.Mutex
	available  map[domain.ProductID]int
	stockErr   error
	reserveErr error
	nextID     int
	reserved   []domain.StockReservation
	confirmed  []string
	released   []string
}

func newMockInventory(available map[domain.ProductID]int) *mockInventory {
	return &mockInventory{available: available}
}

func (m *mockInventory) GetAvailableStock(_ context.Context, productID domain.ProductID) (int, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.stockErr != nil {
		return 0, m.stockErr
	}
	available, ok := m.available[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	return available, nil
}

func (m *mockInventory) Reserve(_ context.Context, productID domain.ProductID, quantity int) (domain.StockReservation, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.reserveErr != nil {
		return domain.StockReservation{}, m.reserveErr
	}
	if m.available[productID] < quantity {
		return domain.StockReservation{}, domain.ErrInsufficientStock
	}
	m.nextID++
	reservation := domain.StockReservation{
		ReservationID: fmt.Sprintf("res-%d", m.nextID),
		ProductID:     productID,
		Quantity:      quantity,
	}
	m.reserved = append(m.reserved, reservation)
	return reservation, nil
}

func (m *mockInventory) Confirm(_ context.Context, reservationID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.confirmed = append(m.confirmed, reservationID)
	return nil
}

func (m *mockInventory) Release(_ context.Context, reservationID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.released = append(m.released, reservationID)
	return nil
}

type mockOrderRepository struct {
	m         sync.RWMutex
	orders    map[domain.OrderID]*domain.Order
	events    []repository.OutboxEvent
	createErr error
	updateErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[domain.OrderID]*domain.Order)}
}

func (m *mockOrderRepository) FindByID(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) FindByCustomerID(_ context.Context, customerID domain.CustomerID) ([]*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	var orders []*domain.Order
	for _, order := range m.orders {
		if order.CustomerID() == customerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *mockOrderRepository) Create(_ context.Context, order *domain.Order, events []repository.OutboxEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[order.ID()] = order
	m.events = append(m.events, events...)
	return nil
}

func (m *mockOrderRepository) Update(_ context.Context, order *domain.Order, events []repository.OutboxEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.orders[order.ID()]; !ok {
		return domain.ErrOrderNotFound
	}
	m.orders[order.ID()] = order
	m.events = append(m.events, events...)
	return nil
}

func (m *mockOrderRepository) eventTypes() []string {
	m.m.RLock()
	defer m.m.RUnlock()
	types := make([]string, 0, len(m.events))
	for _, event := range m.events {
		types = append(types, event.EventType)
	}
	return types
}
