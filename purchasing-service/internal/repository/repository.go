package repository

import (
	"context"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

// CartRepository defines the interface for cart persistence.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	FindByID(ctx context.Context, id domain.CartID) (*domain.Cart, error)
	FindActiveByCustomerID(ctx context.Context, customerID domain.CustomerID) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, id domain.CartID) error
}

// OrderRepository defines the interface for order persistence. Save persists
// the aggregate and its outbox events in one transaction.
type OrderRepository interface {
	FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
	FindByCustomerID(ctx context.Context, customerID domain.CustomerID) ([]*domain.Order, error)
	Create(ctx context.Context, order *domain.Order, events []OutboxEvent) error
	Update(ctx context.Context, order *domain.Order, events []OutboxEvent) error
}
