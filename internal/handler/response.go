package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// userID extracts the caller identity from the X-User-ID header.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// lang extracts the preferred language from the Accept-Language header,
// taking only the primary tag of the first entry.
func lang(c *gin.Context) string {
	header := c.GetHeader("Accept-Language")
	for i := 0; i < len(header); i++ {
		switch header[i] {
		case ',', ';', '-':
			return header[:i]
		}
	}
	return header
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidInterval),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidServiceID),
		errors.Is(err, service.ErrInvalidProviderID),
		errors.Is(err, service.ErrInvalidRouteID),
		errors.Is(err, service.ErrInvalidSeatID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		return http.StatusBadRequest

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrResourceUnavailable),
		errors.Is(err, service.ErrServiceInactive),
		errors.Is(err, service.ErrVehicleRateMissing),
		errors.Is(err, service.ErrBookingNotCancelable),
		errors.Is(err, service.ErrBookingNotStartable),
		errors.Is(err, service.ErrBookingNotCompletable),
		errors.Is(err, service.ErrBookingNotCompleted),
		errors.Is(err, service.ErrBookingNotReviewable),
		errors.Is(err, service.ErrBookingNotPayable),
		errors.Is(err, service.ErrReviewAlreadyExists):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
