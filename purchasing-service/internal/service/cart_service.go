package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/cache"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/repository"
)

type CartService struct {
	repo      repository.CartRepository
	cache     cache.CartCache
	products  domain.ProductProvider
	inventory domain.InventoryChecker
	clock     domain.Clock
	sfg       singleflight.Group // Prevents cache stampede
}

func NewCartService(
	repo repository.CartRepository,
	cartCache cache.CartCache,
	products domain.ProductProvider,
	inventory domain.InventoryChecker,
	clock domain.Clock,
) *CartService {
	return &CartService{
		repo:      repo,
		cache:     cartCache,
		products:  products,
		inventory: inventory,
		clock:     clock,
	}
}

// CreateCart starts an empty cart for the customer. A customer may have any
// number of carts; the active one is the most recently touched.
func (s *CartService) CreateCart(ctx context.Context, customerID domain.CustomerID) (*domain.Cart, error) {
	cart := domain.NewCart(domain.NewCartID(), customerID, s.clock)
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetActiveCart finds the customer's most recently modified unconverted cart.
// Reads go straight to the repository: the cache is keyed by cart id and the
// active cart changes as the customer shops.
func (s *CartService) GetActiveCart(ctx context.Context, customerID domain.CustomerID) (*domain.Cart, error) {
	return s.repo.FindActiveByCustomerID(ctx, customerID)
}

func (s *CartService) GetCart(ctx context.Context, cartID domain.CartID) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(cartID.String(), func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, cartID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.FindByID(ctx, cartID)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			if errSet := s.cache.Set(context.Background(), cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddItem validates the product and its stock before touching the cart. The
// stock rule counts what the cart already holds of the product: a customer
// with 3 in the cart asking for 2 more needs 5 available.
func (s *CartService) AddItem(
	ctx context.Context,
	cartID domain.CartID,
	productID domain.ProductID,
	quantity int,
	options domain.ProductOptions,
) (*domain.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrProductNotFound
	}
	for _, key := range product.RequiredOptions {
		if !options.Has(key) {
			return nil, domain.ErrRequiredOptionMissing
		}
	}

	available, err := s.inventory.GetAvailableStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantityOfProduct(cart, productID)+quantity > available {
		return nil, domain.ErrInsufficientStock
	}

	if err := cart.AddItem(productID, quantity, options); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.invalidateCache(cartID)
	return cart, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, cartID domain.CartID, itemID domain.CartItemID, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		return cart.UpdateQuantity(itemID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, cartID domain.CartID, itemID domain.CartItemID) (*domain.Cart, error) {
	return s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		return cart.RemoveItem(itemID)
	})
}

func (s *CartService) ClearCart(ctx context.Context, cartID domain.CartID) (*domain.Cart, error) {
	return s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		return cart.Clear()
	})
}

// Merge folds the source cart into the target. When deleteSource is set and
// the merge succeeds, the source cart is removed.
func (s *CartService) Merge(ctx context.Context, targetID, sourceID domain.CartID, deleteSource bool) (*domain.Cart, error) {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	source, err := s.repo.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	if err := target.Merge(source); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, target); err != nil {
		return nil, err
	}

	if deleteSource {
		if err := s.repo.Delete(ctx, sourceID); err != nil {
			log.Printf("failed to delete merged source cart %s: %v", sourceID, err)
		}
		s.invalidateCache(sourceID)
	}

	s.invalidateCache(targetID)
	return target, nil
}

// CalculateTotal prices the cart with live catalog prices.
func (s *CartService) CalculateTotal(ctx context.Context, cartID domain.CartID) (domain.Money, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return domain.Money{}, err
	}
	return cart.CalculateTotal(ctx, s.products)
}

func (s *CartService) DeleteCart(ctx context.Context, cartID domain.CartID) error {
	if err := s.repo.Delete(ctx, cartID); err != nil {
		return err
	}
	s.invalidateCache(cartID)
	return nil
}

func (s *CartService) mutate(ctx context.Context, cartID domain.CartID, op func(*domain.Cart) error) (*domain.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := op(cart); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidateCache(cartID)
	return cart, nil
}

func (s *CartService) invalidateCache(cartID domain.CartID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

// quantityOfProduct sums the cart's quantity of one product across all of its
// option variants. Stock is held per product, not per variant.
func quantityOfProduct(cart *domain.Cart, productID domain.ProductID) int {
	total := 0
	for _, item := range cart.Items() {
		if item.ProductID() == productID {
			total += item.Quantity()
		}
	}
	return total
}
