package order

import "errors"

var (
	ErrInvalidPayment = errors.New("invalid payment method")
	ErrEmptyCart      = errors.New("cart is empty")
)
