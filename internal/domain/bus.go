package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusAgency operates bus routes.
type BusAgency struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Approved bool
}

// BusRoute is a scheduled departure with a fixed per-seat price.
type BusRoute struct {
	ID             string
	AgencyID       string
	Origin         string
	Destination    string
	DepartureTime  time.Time
	AvailableSeats int
	Price          decimal.Decimal
	CreatedAt      time.Time
}

// BusSeat is a single seat on a route. IsBooked flips false -> true exactly
// once, atomically with the booking row that references the seat.
type BusSeat struct {
	ID         string
	RouteID    string
	SeatNumber string
	IsBooked   bool
	BookedBy   string
	BookedAt   time.Time
}
