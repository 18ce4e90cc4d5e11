package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// BookingHandler handles HTTP requests for the shared booking lifecycle.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// LocationPayload is the wire form of a location.
type LocationPayload struct {
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// CarsharingPayload is the carsharing section of a booking response.
type CarsharingPayload struct {
	VehicleID string           `json:"vehicle_id"`
	DriverID  string           `json:"driver_id,omitempty"`
	Pickup    LocationPayload  `json:"pickup"`
	Dropoff   *LocationPayload `json:"dropoff,omitempty"`
}

// DetailingPayload is the detailing section of a booking response.
type DetailingPayload struct {
	ServiceID  string          `json:"service_id"`
	ProviderID string          `json:"provider_id"`
	VehicleID  string          `json:"vehicle_id,omitempty"`
	Location   LocationPayload `json:"location"`
	Notes      string          `json:"notes,omitempty"`
}

// BusSeatPayload is the bus-seat section of a booking response.
type BusSeatPayload struct {
	RouteID  string `json:"route_id"`
	SeatID   string `json:"seat_id"`
	AgencyID string `json:"agency_id,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time,omitempty"`
	TotalPrice string `json:"total_price"`
	CreatedAt  string `json:"created_at"`
	CanceledAt string `json:"canceled_at,omitempty"`

	Carsharing *CarsharingPayload `json:"carsharing,omitempty"`
	Detailing  *DetailingPayload  `json:"detailing,omitempty"`
	BusSeat    *BusSeatPayload    `json:"bus_seat,omitempty"`
}

func toLocationPayload(l domain.Location) LocationPayload {
	return LocationPayload{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		Kind:       string(b.Kind),
		Status:     string(b.Status),
		StartTime:  b.Interval.Start.Format(time.RFC3339),
		TotalPrice: b.TotalPrice.StringFixed(2),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
	if !b.Interval.End.IsZero() {
		resp.EndTime = b.Interval.End.Format(time.RFC3339)
	}
	if !b.CanceledAt.IsZero() {
		resp.CanceledAt = b.CanceledAt.Format(time.RFC3339)
	}

	switch {
	case b.Carsharing != nil:
		payload := &CarsharingPayload{
			VehicleID: b.Carsharing.VehicleID,
			DriverID:  b.Carsharing.DriverID,
			Pickup:    toLocationPayload(b.Carsharing.Pickup),
		}
		if b.Carsharing.Dropoff != nil {
			dropoff := toLocationPayload(*b.Carsharing.Dropoff)
			payload.Dropoff = &dropoff
		}
		resp.Carsharing = payload
	case b.Detailing != nil:
		resp.Detailing = &DetailingPayload{
			ServiceID:  b.Detailing.ServiceID,
			ProviderID: b.Detailing.ProviderID,
			VehicleID:  b.Detailing.VehicleID,
			Location:   toLocationPayload(b.Detailing.Location),
			Notes:      b.Detailing.Notes,
		}
	case b.BusSeat != nil:
		resp.BusSeat = &BusSeatPayload{
			RouteID:  b.BusSeat.RouteID,
			SeatID:   b.BusSeat.SeatID,
			AgencyID: b.BusSeat.AgencyID,
			Notes:    b.BusSeat.Notes,
		}
	}
	return resp
}

func toBookingResponses(bookings []*domain.Booking) []BookingResponse {
	responses := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toBookingResponse(b))
	}
	return responses
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Upcoming handles GET /v1/bookings/upcoming
func (h *BookingHandler) Upcoming(c *gin.Context) {
	bookings, err := h.bookingService.Upcoming(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}

// History handles GET /v1/bookings/history
func (h *BookingHandler) History(c *gin.Context) {
	bookings, err := h.bookingService.History(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.Cancel(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// StartBooking handles POST /v1/bookings/:id/start
func (h *BookingHandler) StartBooking(c *gin.Context) {
	booking, err := h.bookingService.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CompleteBooking handles POST /v1/bookings/:id/complete
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	booking, err := h.bookingService.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
