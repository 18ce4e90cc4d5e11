// Package pricing derives booking prices from resource rate schedules.
// All monetary values are fixed-point decimals rounded to 2 fractional
// digits; prices are computed once at booking creation and never recomputed.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/domain"
)

const hoursPerDay = 24

// Carsharing prices a vehicle booking. Bookings shorter than 24 hours are
// billed at the hourly rate when one exists; everything else is billed at the
// daily rate for wholeDays+1 days, so any remainder counts as a full day and
// an exact multiple of 24h bills one extra day. That rounding is kept as-is
// for compatibility with historical quotes.
func Carsharing(vehicle *domain.Vehicle, interval domain.Interval) decimal.Decimal {
	d := interval.Duration()
	hours := d.Hours()

	if hours < hoursPerDay && vehicle.HourlyRate.Valid {
		return vehicle.HourlyRate.Decimal.Mul(decimal.NewFromFloat(hours)).Round(2)
	}

	days := int64(d/(hoursPerDay*time.Hour)) + 1
	return vehicle.DailyRate.Decimal.Mul(decimal.NewFromInt(days)).Round(2)
}

// Detailing prices a detailing booking: the service's flat base price,
// independent of duration.
func Detailing(service *domain.DetailingService) decimal.Decimal {
	return service.BasePrice.Round(2)
}

// BusSeat prices a seat booking: the route's fixed per-seat price.
func BusSeat(route *domain.BusRoute) decimal.Decimal {
	return route.Price.Round(2)
}
