package domain

import "errors"

// Sentinel errors surfaced by repositories and services. Handlers map them
// to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrPriceUnavailable   = errors.New("unable to get stock price")
)
