package domain

import "time"

// Provider is a mobile detailing provider. Providers carry no availability
// flag: availability is derived from the absence of an overlapping active
// booking within their self-declared service radius.
type Provider struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	DetailingRating float64
	ServiceRadiusKm float64
	Bio             string
	Latitude        *float64
	Longitude       *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasLocation reports whether the provider has coordinates.
func (p *Provider) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Driver is the owner-driver side of a carsharing vehicle, the target of
// carsharing reviews.
type Driver struct {
	ID           string
	FirstName    string
	LastName     string
	Phone        string
	License      string
	Verified     bool
	DriverRating float64
}
