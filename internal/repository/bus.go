package repository

import (
	"context"
	"time"

	"marketplace/internal/domain"
)

// BusRepository defines the persistence operations for bus routes and seats.
type BusRepository interface {
	// GetRouteByID retrieves a route by ID.
	GetRouteByID(ctx context.Context, id string) (*domain.BusRoute, error)

	// ListRoutes retrieves all routes in insertion order.
	ListRoutes(ctx context.Context) ([]*domain.BusRoute, error)

	// GetSeatByID retrieves a seat by ID.
	GetSeatByID(ctx context.Context, id string) (*domain.BusSeat, error)

	// ListSeatsByRoute retrieves all seats on a route in insertion order.
	ListSeatsByRoute(ctx context.Context, routeID string) ([]*domain.BusSeat, error)

	// MarkSeatBooked flips is_booked false -> true for the seat, guarded so
	// the flip happens at most once. Returns ErrSeatTaken when the seat is
	// already booked.
	MarkSeatBooked(ctx context.Context, seatID, userID string, at time.Time) error

	// DecrementAvailableSeats reduces the route's available seat count.
	DecrementAvailableSeats(ctx context.Context, routeID string) error

	// ReleaseSeat frees a booked seat and restores the route's seat count.
	// Freeing an already-free seat is a no-op.
	ReleaseSeat(ctx context.Context, seatID string) error
}
