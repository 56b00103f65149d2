package orders

import "errors"

var (
	// ErrValidation covers malformed placement input: missing customer
	// fields, an empty cart, or a non-positive quantity. No store access
	// has happened when it is returned.
	ErrValidation = errors.New("invalid order request")

	// ErrProductNotFound means a line item referenced an unknown product.
	ErrProductNotFound = errors.New("product not found")

	// ErrPriceNotSet means the product exists but has never been priced.
	ErrPriceNotSet = errors.New("product has no price set")

	// ErrInsufficientStock means the requested quantity exceeds the stock
	// remaining at the moment of the decrement.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStatusFinal means the order is in a terminal status and cannot
	// transition further.
	ErrStatusFinal = errors.New("order status is final")
)
