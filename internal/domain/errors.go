package domain

import "errors"

var (
	// ErrInvalidInput is returned when a required input is missing or of the
	// wrong shape. "No match found" is never an error, only an absent result.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRecordNotFound is returned when no extracted record exists under a key.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNotOrderPage is returned when strict-mode classification rejects a
	// page, so its extraction result is not persisted.
	ErrNotOrderPage = errors.New("page did not classify as an order page")

	// ErrCacheMiss is returned when a classification is not in the cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreUnavailable is returned when the record store cannot be reached.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
