package domain

import (
	"context"
	"time"
)

const (
	// MaxItemTypes caps the number of distinct (product, options) lines.
	MaxItemTypes = 50

	// CartExpiry is the inactivity window after which a cart counts as
	// expired. Expiry is a derived property; deletion is a repository
	// decision, not the aggregate's.
	CartExpiry = 90 * 24 * time.Hour
)

// Cart is the shopping-cart aggregate root. All mutation goes through its
// methods; once converted to an order it becomes immutable.
type Cart struct {
	id             CartID
	customerID     CustomerID
	items          []*CartItem
	createdAt      time.Time
	lastModifiedAt time.Time
	converted      bool
	clock          Clock
}

// NewCart creates an empty, unconverted cart.
func NewCart(id CartID, customerID CustomerID, clock Clock) *Cart {
	now := clock.Now()
	return &Cart{
		id:             id,
		customerID:     customerID,
		items:          []*CartItem{},
		createdAt:      now,
		lastModifiedAt: now,
		clock:          clock,
	}
}

// RestoreCart rebuilds a cart from persisted state.
func RestoreCart(
	id CartID,
	customerID CustomerID,
	items []*CartItem,
	createdAt, lastModifiedAt time.Time,
	converted bool,
	clock Clock,
) *Cart {
	cp := make([]*CartItem, len(items))
	copy(cp, items)
	return &Cart{
		id:             id,
		customerID:     customerID,
		items:          cp,
		createdAt:      createdAt,
		lastModifiedAt: lastModifiedAt,
		converted:      converted,
		clock:          clock,
	}
}

// RestoreFromFailedOrder returns reserved lines to a fresh, unconverted cart
// after an order attempt failed downstream.
func RestoreFromFailedOrder(id CartID, customerID CustomerID, items []*CartItem, clock Clock) *Cart {
	now := clock.Now()
	return RestoreCart(id, customerID, items, now, now, false, clock)
}

func (c *Cart) ID() CartID                { return c.id }
func (c *Cart) CustomerID() CustomerID    { return c.customerID }
func (c *Cart) CreatedAt() time.Time      { return c.createdAt }
func (c *Cart) LastModifiedAt() time.Time { return c.lastModifiedAt }
func (c *Cart) IsConverted() bool         { return c.converted }

// Items returns a read-only view: the slice is a copy, callers must not
// mutate the lines directly.
func (c *Cart) Items() []*CartItem {
	cp := make([]*CartItem, len(c.items))
	copy(cp, c.items)
	return cp
}

func (c *Cart) ItemCount() int { return len(c.items) }

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity()
	}
	return total
}

// AddItem adds quantity of a product to the cart. If a line with the same
// (product, options) pair exists its quantity is increased, otherwise a new
// line is appended, bounded by MaxItemTypes distinct lines.
func (c *Cart) AddItem(productID ProductID, quantity int, options ProductOptions) error {
	if err := c.ensureNotConverted(); err != nil {
		return err
	}

	if existing := c.findByLine(productID, options); existing != nil {
		if err := existing.IncreaseQuantity(quantity); err != nil {
			return err
		}
		c.touch()
		return nil
	}

	if len(c.items) >= MaxItemTypes {
		return newError(CodeCartItemLimitExceeded,
			"cannot hold more than %d different product lines", MaxItemTypes)
	}

	item, err := NewCartItem(NewCartItemID(), productID, options, quantity, c.clock)
	if err != nil {
		return err
	}
	c.items = append(c.items, item)
	c.touch()
	return nil
}

// RemoveItem deletes the line with the given identity.
func (c *Cart) RemoveItem(itemID CartItemID) error {
	if err := c.ensureNotConverted(); err != nil {
		return err
	}
	for idx, item := range c.items {
		if item.ID() == itemID {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			c.touch()
			return nil
		}
	}
	return newError(CodeInvalidCartState, "cart item not found: %s", itemID)
}

// UpdateQuantity replaces the quantity of one line.
func (c *Cart) UpdateQuantity(itemID CartItemID, quantity int) error {
	if err := c.ensureNotConverted(); err != nil {
		return err
	}
	item := c.findByID(itemID)
	if item == nil {
		return newError(CodeInvalidCartState, "cart item not found: %s", itemID)
	}
	if err := item.UpdateQuantity(quantity); err != nil {
		return err
	}
	c.touch()
	return nil
}

// Clear removes all lines. The converted flag is untouched.
func (c *Cart) Clear() error {
	if err := c.ensureNotConverted(); err != nil {
		return err
	}
	c.items = []*CartItem{}
	c.touch()
	return nil
}

// CalculateTotal prices every line at its current price from the provider
// and sums. Prices are looked up live, not stored: they may have moved
// between add-to-cart time and checkout time. An empty cart totals zero.
func (c *Cart) CalculateTotal(ctx context.Context, prices PriceProvider) (Money, error) {
	total := ZeroMoney()
	for _, item := range c.items {
		price, err := prices.GetPrice(ctx, item.ProductID())
		if err != nil {
			return Money{}, err
		}
		total, err = total.Add(price.Mul(item.Quantity()))
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// Merge folds every line of other into this cart, summing quantities for
// shared (product, options) pairs. The merge is all-or-nothing: both the
// distinct-line cap and the per-line quantity bound are validated before any
// line is applied, so a failing merge leaves the target unchanged. The
// source cart is never mutated.
func (c *Cart) Merge(other *Cart) error {
	if err := c.ensureNotConverted(); err != nil {
		return err
	}
	if other.IsConverted() {
		return newError(CodeInvalidCartState, "cannot merge a converted cart")
	}

	newLines := 0
	for _, incoming := range other.items {
		if existing := c.findByLine(incoming.ProductID(), incoming.Options()); existing != nil {
			if err := validateQuantity(existing.Quantity() + incoming.Quantity()); err != nil {
				return err
			}
		} else {
			newLines++
		}
	}
	if len(c.items)+newLines > MaxItemTypes {
		return newError(CodeCartItemLimitExceeded,
			"merge would exceed the %d product line limit", MaxItemTypes)
	}

	for _, incoming := range other.items {
		if err := c.AddItem(incoming.ProductID(), incoming.Quantity(), incoming.Options()); err != nil {
			return err
		}
	}
	return nil
}

// ConvertToOrder flips the cart into its immutable converted state.
// Irreversible; an empty cart cannot be converted.
func (c *Cart) ConvertToOrder() error {
	if err := c.ensureNotConverted(); err != nil {
		return err
	}
	if len(c.items) == 0 {
		return newError(CodeInvalidCartState, "cannot convert an empty cart")
	}
	c.converted = true
	c.touch()
	return nil
}

// IsExpired reports whether the cart has been idle for longer than
// CartExpiry. Nothing is enforced here; sweeping is a repository concern.
func (c *Cart) IsExpired() bool {
	return c.clock.Now().Sub(c.lastModifiedAt) > CartExpiry
}

func (c *Cart) ensureNotConverted() error {
	if c.converted {
		return ErrCartAlreadyConverted
	}
	return nil
}

func (c *Cart) findByLine(productID ProductID, options ProductOptions) *CartItem {
	for _, item := range c.items {
		if item.IsSameProduct(productID, options) {
			return item
		}
	}
	return nil
}

func (c *Cart) findByID(itemID CartItemID) *CartItem {
	for _, item := range c.items {
		if item.ID() == itemID {
			return item
		}
	}
	return nil
}

func (c *Cart) touch() {
	c.lastModifiedAt = c.clock.Now()
}
