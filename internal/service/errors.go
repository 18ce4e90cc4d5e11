package service

import "errors"

var (
	// ErrInvalidInterval is returned when a booking window is malformed:
	// missing start, or end not after start.
	ErrInvalidInterval = errors.New("invalid booking interval")

	// ErrInvalidLocation is returned when coordinates are out of range or missing.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidUserID is returned when the requesting user id is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidVehicleID is returned when the vehicle id is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidServiceID is returned when the detailing service id is empty.
	ErrInvalidServiceID = errors.New("invalid service id")

	// ErrInvalidProviderID is returned when the provider id is empty.
	ErrInvalidProviderID = errors.New("invalid provider id")

	// ErrInvalidRouteID is returned when the bus route id is empty.
	ErrInvalidRouteID = errors.New("invalid route id")

	// ErrInvalidSeatID is returned when the bus seat id is empty.
	ErrInvalidSeatID = errors.New("invalid seat id")

	// ErrInvalidBookingID is returned when the booking id is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidRating is returned when a review rating is outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrResourceUnavailable is returned when the requested resource fails
	// the availability check at search or commit time: vehicle held, seat
	// taken, or a conflicting booking on the interval.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrForbidden is returned when the actor lacks rights over the target.
	ErrForbidden = errors.New("forbidden")

	// ErrServiceInactive is returned when the detailing service definition
	// is missing or deactivated.
	ErrServiceInactive = errors.New("service not available")

	// ErrVehicleRateMissing is returned when a vehicle carries no rate for
	// the billing tier the requested interval falls into.
	ErrVehicleRateMissing = errors.New("vehicle has no rate for the requested duration")

	// ErrBookingNotCancelable is returned when canceling a terminal booking.
	ErrBookingNotCancelable = errors.New("booking cannot be canceled in current state")

	// ErrBookingNotStartable is returned when starting a booking that is not
	// a confirmed detailing booking.
	ErrBookingNotStartable = errors.New("booking cannot be started in current state")

	// ErrBookingNotCompletable is returned when completing a booking that is
	// not in an active state.
	ErrBookingNotCompletable = errors.New("booking cannot be completed in current state")

	// ErrBookingNotCompleted is returned when reviewing a booking that has
	// not completed.
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrBookingNotReviewable is returned for booking kinds without a
	// reviewable counterparty.
	ErrBookingNotReviewable = errors.New("booking kind cannot be reviewed")

	// ErrReviewAlreadyExists is returned on a second review for one booking.
	ErrReviewAlreadyExists = errors.New("review already submitted for booking")

	// ErrBookingNotPayable is returned when confirming payment on a booking
	// that is not pending.
	ErrBookingNotPayable = errors.New("booking is not awaiting payment")
)
