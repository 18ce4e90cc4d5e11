package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is a bookable carsharing vehicle. IsAvailable is the exclusivity
// flag flipped by booking creation: one active booking at a time, regardless
// of interval non-overlap elsewhere.
type Vehicle struct {
	ID              string
	OwnerID         string
	Make            string
	Model           string
	Year            int
	LicensePlate    string
	Color           string
	VehicleType     string
	SeatingCapacity int
	FuelType        string
	Transmission    string
	HourlyRate      decimal.NullDecimal
	DailyRate       decimal.NullDecimal
	IsAvailable     bool
	IsApproved      bool
	Latitude        *float64
	Longitude       *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasLocation reports whether the vehicle has coordinates. Vehicles without a
// location never match geo-filtered searches.
func (v *Vehicle) HasLocation() bool {
	return v.Latitude != nil && v.Longitude != nil
}
