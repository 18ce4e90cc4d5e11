package domain

import "time"

// ReviewType selects which rolling average a review feeds.
type ReviewType string

const (
	ReviewTypeCarsharing ReviewType = "carsharing"
	ReviewTypeDetailing  ReviewType = "detailing"
)

// Review is attached to exactly one completed booking (uniqueness on
// BookingID) and targets the driver or provider of that booking.
type Review struct {
	ID         string
	BookingID  string
	ReviewerID string
	TargetID   string
	VehicleID  string
	Rating     int // 1-5
	Comment    string
	Type       ReviewType
	CreatedAt  time.Time
}
