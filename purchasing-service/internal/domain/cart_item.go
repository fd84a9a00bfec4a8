package domain

import "time"

const (
	MinQuantity = 1
	MaxQuantity = 99
)

// CartItem is one line in a cart: a product, its selected options and a
// quantity. It is owned exclusively by its Cart and only mutated through it.
type CartItem struct {
	id                CartItemID
	productID         ProductID
	options           ProductOptions
	quantity          int
	addedAt           time.Time
	lastModifiedAt    time.Time
	available         bool
	unavailableReason string
	clock             Clock
}

// NewCartItem validates the quantity bound; everything else is assumed
// already validated by the caller (the Cart).
func NewCartItem(id CartItemID, productID ProductID, options ProductOptions, quantity int, clock Clock) (*CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	now := clock.Now()
	return &CartItem{
		id:             id,
		productID:      productID,
		options:        options,
		quantity:       quantity,
		addedAt:        now,
		lastModifiedAt: now,
		available:      true,
		clock:          clock,
	}, nil
}

// RestoreCartItem rebuilds a line from persisted state without re-running
// creation-time validation.
func RestoreCartItem(
	id CartItemID,
	productID ProductID,
	options ProductOptions,
	quantity int,
	addedAt, lastModifiedAt time.Time,
	available bool,
	unavailableReason string,
	clock Clock,
) *CartItem {
	return &CartItem{
		id:                id,
		productID:         productID,
		options:           options,
		quantity:          quantity,
		addedAt:           addedAt,
		lastModifiedAt:    lastModifiedAt,
		available:         available,
		unavailableReason: unavailableReason,
		clock:             clock,
	}
}

func (i *CartItem) ID() CartItemID            { return i.id }
func (i *CartItem) ProductID() ProductID      { return i.productID }
func (i *CartItem) Options() ProductOptions   { return i.options }
func (i *CartItem) Quantity() int             { return i.quantity }
func (i *CartItem) AddedAt() time.Time        { return i.addedAt }
func (i *CartItem) LastModifiedAt() time.Time { return i.lastModifiedAt }
func (i *CartItem) IsAvailable() bool         { return i.available }
func (i *CartItem) UnavailableReason() string { return i.unavailableReason }

// UpdateQuantity replaces the quantity, re-validating the [1,99] bound.
func (i *CartItem) UpdateQuantity(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	i.quantity = quantity
	i.touch()
	return nil
}

// IncreaseQuantity adds to the quantity; the resulting total must stay
// within the bound.
func (i *CartItem) IncreaseQuantity(additional int) error {
	if err := validateQuantity(i.quantity + additional); err != nil {
		return err
	}
	i.quantity += additional
	i.touch()
	return nil
}

// MarkAsUnavailable flags the line as unfulfillable without removing it, so
// the customer can see why it cannot be bought.
func (i *CartItem) MarkAsUnavailable(reason string) {
	i.available = false
	i.unavailableReason = reason
	i.touch()
}

func (i *CartItem) MarkAsAvailable() {
	i.available = true
	i.unavailableReason = ""
	i.touch()
}

// IsSameProduct reports whether the line refers to the same (product,
// options) pair. This is the merge key used by Cart.AddItem and Cart.Merge.
func (i *CartItem) IsSameProduct(productID ProductID, options ProductOptions) bool {
	return i.productID == productID && i.options.Equal(options)
}

// ValidateRequiredOptions fails if any option marked required in the given
// map is absent from this line's options.
func (i *CartItem) ValidateRequiredOptions(required map[string]bool) error {
	for key, isRequired := range required {
		if isRequired && !i.options.Has(key) {
			return newError(CodeRequiredOptionMissing, "required option %q is missing", key)
		}
	}
	return nil
}

func (i *CartItem) touch() {
	i.lastModifiedAt = i.clock.Now()
}

func validateQuantity(quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return newError(CodeInvalidQuantity,
			"quantity must be between %d and %d, but was %d", MinQuantity, MaxQuantity, quantity)
	}
	return nil
}
