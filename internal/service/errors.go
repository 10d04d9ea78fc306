package service

import (
	"errors"
	"fmt"
)

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrForbidden           = errors.New("actor is not allowed to perform this action")
	ErrAlreadyFinal        = errors.New("reservation is already in a final state")
	ErrExpired             = errors.New("reservation request has expired")
	ErrInvalidRequest      = errors.New("invalid reservation request")
)

// OutOfCapacityError is the normal rejection outcome of a commit: the
// property does not have enough free rooms for the requested range. It
// carries the count that is still free so the caller can offer a
// corrected option.
type OutOfCapacityError struct {
	Available int
}

func (e *OutOfCapacityError) Error() string {
	return fmt.Sprintf("out of capacity: %d room(s) available", e.Available)
}

func IsOutOfCapacity(err error) *OutOfCapacityError {
	if err == nil {
		return nil
	}

	var capacityErr *OutOfCapacityError
	if errors.As(err, &capacityErr) {
		return capacityErr
	}

	return nil
}
