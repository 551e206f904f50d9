package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrCartEmpty indicates a checkout was attempted on a cart with no items.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrVariantUnavailable indicates no variant exists for the requested
	// product, size and color combination.
	ErrVariantUnavailable = errors.New("variant unavailable")

	// ErrInsufficientStock indicates the requested quantity exceeds the
	// variant's current stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotAuthorized indicates the caller tried to touch a cart item that
	// does not belong to their cart.
	ErrNotAuthorized = errors.New("cart item not owned by caller")

	// ErrOrderNotFound indicates a lookup of a non-existent order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidStatusTransition indicates a forbidden order status change.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	ErrVoucherNotFound       = errors.New("voucher code does not exist")
	ErrVoucherExpired        = errors.New("voucher is outside its validity window")
	ErrVoucherExhausted      = errors.New("voucher is inactive or out of redemptions")
	ErrVoucherMinOrderNotMet = errors.New("order subtotal below voucher minimum")
)
