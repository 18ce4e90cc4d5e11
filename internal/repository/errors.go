package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated,
	// e.g. a second review for the same booking.
	ErrDuplicate = errors.New("entity already exists")

	// ErrSeatTaken is returned when a seat's booked flag is already set.
	ErrSeatTaken = errors.New("seat already booked")
)
