package repository

import "errors"

var (
	// ErrNotFound covers missing properties and reservations alike; the
	// service layer translates it per lookup.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrencyConflict means the store's conditional write detected
	// that the insert would exceed the property's room inventory.
	ErrConcurrencyConflict = errors.New("concurrent write exceeded room inventory")
)
