package cart

import "errors"

var (
	// ErrLineBusy means a mutation for the same product is already in
	// flight; the caller should wait for it to settle.
	ErrLineBusy = errors.New("cart line mutation already in flight")
)
