package service

import "errors"

var (
	// ErrInvalidRequest marks a request the caller must fix before retrying.
	ErrInvalidRequest = errors.New("invalid trade request")

	// ErrPriceUnavailable means no aggregated quote exists yet for the symbol.
	ErrPriceUnavailable = errors.New("no price data available")

	// ErrInsufficientBalance means the funding wallet cannot cover the trade.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrConcurrencyExhausted means the settlement kept losing optimistic
	// version races and gave up after the configured attempt budget. No
	// mutation was committed.
	ErrConcurrencyExhausted = errors.New("settlement retries exhausted due to concurrent updates")
)
