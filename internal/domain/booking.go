package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingKind discriminates the booking variants.
type BookingKind string

const (
	BookingKindCarsharing BookingKind = "carsharing"
	BookingKindDetailing  BookingKind = "detailing"
	BookingKindBusSeat    BookingKind = "bus_seat"
)

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCanceled   BookingStatus = "canceled"
)

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCanceled
}

// Location is an address with coordinates, as captured at booking time.
type Location struct {
	Address string
	Lat     float64
	Lng     float64
}

// CarsharingDetails is the carsharing-specific booking payload.
type CarsharingDetails struct {
	VehicleID string
	DriverID  string // the vehicle owner
	Pickup    Location
	Dropoff   *Location
}

// DetailingDetails is the detailing-specific booking payload.
type DetailingDetails struct {
	ServiceID  string
	ProviderID string
	VehicleID  string
	Location   Location
	Notes      string
}

// BusSeatDetails is the bus-seat-specific booking payload.
type BusSeatDetails struct {
	RouteID  string
	SeatID   string
	AgencyID string
	Notes    string
}

// Booking is a tagged union over the three booking variants: a shared header
// plus exactly one non-nil payload matching Kind. Bookings are never deleted;
// status transitions are the only mutations after creation.
type Booking struct {
	ID         string
	UserID     string
	Kind       BookingKind
	Status     BookingStatus
	Interval   Interval
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CanceledAt time.Time

	Carsharing *CarsharingDetails
	Detailing  *DetailingDetails
	BusSeat    *BusSeatDetails
}

// ResourceID returns the id of the exclusively contended resource for the
// booking's kind: the vehicle, the provider, or the seat.
func (b *Booking) ResourceID() string {
	switch b.Kind {
	case BookingKindCarsharing:
		if b.Carsharing != nil {
			return b.Carsharing.VehicleID
		}
	case BookingKindDetailing:
		if b.Detailing != nil {
			return b.Detailing.ProviderID
		}
	case BookingKindBusSeat:
		if b.BusSeat != nil {
			return b.BusSeat.SeatID
		}
	}
	return ""
}

// ConflictStatuses returns the statuses that count as active commitments when
// checking temporal conflicts for the given kind.
func ConflictStatuses(kind BookingKind) []BookingStatus {
	if kind == BookingKindDetailing {
		return []BookingStatus{BookingStatusConfirmed, BookingStatusInProgress}
	}
	return []BookingStatus{BookingStatusPending, BookingStatusConfirmed}
}
