package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// BusHandler handles HTTP requests for bus routes and seat booking.
type BusHandler struct {
	busService *service.BusService
}

// NewBusHandler creates a new BusHandler.
func NewBusHandler(busService *service.BusService) *BusHandler {
	return &BusHandler{busService: busService}
}

// RouteResponse is the HTTP representation of a bus route.
type RouteResponse struct {
	ID             string `json:"id"`
	AgencyID       string `json:"agency_id"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	DepartureTime  string `json:"departure_time"`
	AvailableSeats int    `json:"available_seats"`
	Price          string `json:"price"`
}

func toRouteResponse(r *domain.BusRoute) RouteResponse {
	return RouteResponse{
		ID:             r.ID,
		AgencyID:       r.AgencyID,
		Origin:         r.Origin,
		Destination:    r.Destination,
		DepartureTime:  r.DepartureTime.Format(time.RFC3339),
		AvailableSeats: r.AvailableSeats,
		Price:          r.Price.StringFixed(2),
	}
}

// SeatResponse is the HTTP representation of a bus seat.
type SeatResponse struct {
	ID         string `json:"id"`
	RouteID    string `json:"route_id"`
	SeatNumber string `json:"seat_number"`
	IsBooked   bool   `json:"is_booked"`
}

// ListRoutes handles GET /v1/bus/routes
func (h *BusHandler) ListRoutes(c *gin.Context) {
	routes, err := h.busService.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		responses = append(responses, toRouteResponse(r))
	}
	respondJSON(c, http.StatusOK, responses)
}

// ListSeats handles GET /v1/bus/routes/:id/seats
func (h *BusHandler) ListSeats(c *gin.Context) {
	seats, err := h.busService.ListSeats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]SeatResponse, 0, len(seats))
	for _, s := range seats {
		responses = append(responses, SeatResponse{
			ID:         s.ID,
			RouteID:    s.RouteID,
			SeatNumber: s.SeatNumber,
			IsBooked:   s.IsBooked,
		})
	}
	respondJSON(c, http.StatusOK, responses)
}

// BookSeatRequest is the HTTP request body for booking a bus seat.
type BookSeatRequest struct {
	RouteID string `json:"route_id"`
	SeatID  string `json:"seat_id"`
	Notes   string `json:"notes,omitempty"`
}

// BookSeat handles POST /v1/bus/bookings
func (h *BusHandler) BookSeat(c *gin.Context) {
	var req BookSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.busService.BookSeat(c.Request.Context(), service.BookSeatRequest{
		UserID:  userID(c),
		RouteID: req.RouteID,
		SeatID:  req.SeatID,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}
