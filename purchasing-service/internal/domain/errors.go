package domain

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a business rule violation. Codes are part of the API
// contract (clients branch on them), so they must stay stable.
type ErrorCode string

const (
	CodeCartAlreadyConverted   ErrorCode = "CART_ALREADY_CONVERTED"
	CodeCartItemLimitExceeded  ErrorCode = "CART_ITEM_LIMIT_EXCEEDED"
	CodeInvalidQuantity        ErrorCode = "INVALID_QUANTITY"
	CodeInvalidCartState       ErrorCode = "INVALID_CART_STATE"
	CodeRequiredOptionMissing  ErrorCode = "REQUIRED_OPTION_MISSING"
	CodeInsufficientStock      ErrorCode = "INSUFFICIENT_STOCK"
	CodeCartNotFound           ErrorCode = "CART_NOT_FOUND"
	CodeOrderNotFound          ErrorCode = "ORDER_NOT_FOUND"
	CodeInvalidOrderTransition ErrorCode = "INVALID_ORDER_TRANSITION"
	CodeRefundWindowExpired    ErrorCode = "REFUND_WINDOW_EXPIRED"
	CodeCurrencyMismatch       ErrorCode = "CURRENCY_MISMATCH"
	CodeProductNotFound        ErrorCode = "PRODUCT_NOT_FOUND"
)

// Error is a domain rule violation carrying a stable code.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is matches any *Error with the same code, so errors.Is works against the
// package sentinels regardless of the message text.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is checks. Functions in this package return richer
// messages, but always one of these codes.
var (
	ErrCartAlreadyConverted   = &Error{CodeCartAlreadyConverted, "cart is already converted to an order"}
	ErrCartItemLimitExceeded  = &Error{CodeCartItemLimitExceeded, "cart item limit exceeded"}
	ErrInvalidQuantity        = &Error{CodeInvalidQuantity, "invalid quantity"}
	ErrInvalidCartState       = &Error{CodeInvalidCartState, "invalid cart state"}
	ErrRequiredOptionMissing  = &Error{CodeRequiredOptionMissing, "required option is missing"}
	ErrInsufficientStock      = &Error{CodeInsufficientStock, "insufficient stock"}
	ErrCartNotFound           = &Error{CodeCartNotFound, "cart not found"}
	ErrOrderNotFound          = &Error{CodeOrderNotFound, "order not found"}
	ErrInvalidOrderTransition = &Error{CodeInvalidOrderTransition, "invalid order status transition"}
	ErrRefundWindowExpired    = &Error{CodeRefundWindowExpired, "refund window has expired"}
	ErrCurrencyMismatch       = &Error{CodeCurrencyMismatch, "currency mismatch"}
	ErrProductNotFound        = &Error{CodeProductNotFound, "product not found"}
)

// CodeOf extracts the ErrorCode from err, or "" if err is not a domain error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
