package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DetailingService is a service definition offered by detailing providers.
// The flat BasePrice is the booking price; Duration only determines the
// booked interval's end time.
type DetailingService struct {
	ID          string
	Name        LocalizedText
	Description LocalizedText
	BasePrice   decimal.Decimal
	Duration    time.Duration
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
