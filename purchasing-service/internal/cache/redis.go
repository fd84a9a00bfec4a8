package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

// cachedCart is the JSON snapshot stored in Redis. The aggregate keeps its
// fields unexported, so the cache round-trips through this shape and rebuilds
// the aggregate on read.
type cachedCart struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customer_id"`
	Items      []cachedCartItem `json:"items"`
	Converted  bool             `json:"converted"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type cachedCartItem struct {
	ID                string            `json:"id"`
	ProductID         string            `json:"product_id"`
	Options           map[string]string `json:"options,omitempty"`
	Quantity          int               `json:"quantity"`
	AddedAt           time.Time         `json:"added_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Available         bool              `json:"available"`
	UnavailableReason string            `json:"unavailable_reason,omitempty"`
}

func snapshot(cart *domain.Cart) cachedCart {
	items := cart.Items()
	cached := make([]cachedCartItem, 0, len(items))
	for _, item := range items {
		cached = append(cached, cachedCartItem{
			ID:                item.ID().String(),
			ProductID:         item.ProductID().String(),
			Options:           item.Options().Values(),
			Quantity:          item.Quantity(),
			AddedAt:           item.AddedAt(),
			UpdatedAt:         item.LastModifiedAt(),
			Available:         item.IsAvailable(),
			UnavailableReason: item.UnavailableReason(),
		})
	}
	return cachedCart{
		ID:         cart.ID().String(),
		CustomerID: cart.CustomerID().String(),
		Items:      cached,
		Converted:  cart.IsConverted(),
		CreatedAt:  cart.CreatedAt(),
		UpdatedAt:  cart.LastModifiedAt(),
	}
}

func (c cachedCart) restore(clock domain.Clock) *domain.Cart {
	items := make([]*domain.CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, domain.RestoreCartItem(
			domain.CartItemID(item.ID),
			domain.ProductID(item.ProductID),
			domain.NewProductOptions(item.Options),
			item.Quantity,
			item.AddedAt,
			item.UpdatedAt,
			item.Available,
			item.UnavailableReason,
			clock,
		))
	}
	return domain.RestoreCart(
		domain.CartID(c.ID),
		domain.CustomerID(c.CustomerID),
		items,
		c.CreatedAt,
		c.UpdatedAt,
		c.Converted,
		clock,
	)
}

func NewRedisCache(client *redis.Client, clock domain.Clock) *RedisCache {
	return &RedisCache{
		client:  client,
		clock:   clock,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	clock   domain.Clock
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, cartID domain.CartID) (*domain.Cart, error) {
	key := cacheKey(cartID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cached cachedCart
	if err2 := json.Unmarshal(data, &cached); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err2)
	}

	return cached.restore(r.clock), nil
}

func (r *RedisCache) Set(ctx context.Context, cart *domain.Cart) error {
	key := cacheKey(cart.ID())
	jsonCart, err := json.Marshal(snapshot(cart))
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// Jitter spreads expiry so hot keys do not all fall out at once.
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, key, string(jsonCart), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, cartID domain.CartID) error {
	if err := r.client.Del(ctx, cacheKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(cartID domain.CartID) string {
	return fmt.Sprintf("cart:%s", cartID)
}
