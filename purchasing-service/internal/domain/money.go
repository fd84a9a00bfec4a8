package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an amount tagged with a currency code. Arithmetic across
// currencies is rejected; a mismatch is a programming error in the caller,
// not a user-facing condition.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// ZeroMoney is the additive identity: it carries no currency and can be
// added to any Money value.
func ZeroMoney() Money {
	return Money{Amount: decimal.Zero}
}

// Add returns the sum of m and other. The zero value (no currency) acts as
// identity so totals can be folded without special-casing the first element.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency == "" {
		return other, nil
	}
	if other.Currency == "" {
		return m, nil
	}
	if m.Currency != other.Currency {
		return Money{}, newError(CodeCurrencyMismatch,
			"cannot add %s to %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Mul returns m multiplied by a unitless quantity.
func (m Money) Mul(quantity int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(quantity))),
		Currency: m.Currency,
	}
}

// IsGreaterThanZero reports strict positivity. Money itself permits zero and
// negative amounts; callers decide what is valid in context.
func (m Money) IsGreaterThanZero() bool {
	return m.Amount.GreaterThan(decimal.Zero)
}

// Equal compares by value: 10.0 KRW and 10.00 KRW are the same money.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	if m.Currency == "" {
		return m.Amount.String()
	}
	return m.Amount.String() + " " + m.Currency
}
