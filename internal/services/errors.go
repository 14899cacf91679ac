package services

import "errors"

// Business-rule rejections, detected before any mutation. Storage faults are
// wrapped with %w by the store layer and are never one of these.
var (
	ErrMissingFields      = errors.New("missing one or more of the required params")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidFundsAmount = errors.New("cannot add negative or no funds")
	ErrEmptyCart          = errors.New("cart must contain at least one product")
)
