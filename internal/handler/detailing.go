package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// DetailingHandler handles HTTP requests for mobile detailing.
type DetailingHandler struct {
	detailingService *service.DetailingService
}

// NewDetailingHandler creates a new DetailingHandler.
func NewDetailingHandler(detailingService *service.DetailingService) *DetailingHandler {
	return &DetailingHandler{detailingService: detailingService}
}

// ServiceResponse is the HTTP representation of a detailing service, with
// localized text resolved for the caller's language.
type ServiceResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	BasePrice       string `json:"base_price"`
	DurationMinutes int    `json:"duration_minutes"`
}

func toServiceResponse(s *domain.DetailingService, lang string) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name.Resolve(lang),
		Description:     s.Description.Resolve(lang),
		BasePrice:       s.BasePrice.StringFixed(2),
		DurationMinutes: int(s.Duration / time.Minute),
	}
}

// ProviderResponse is the HTTP representation of a provider.
type ProviderResponse struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	DetailingRating float64  `json:"detailing_rating"`
	ServiceRadiusKm float64  `json:"service_radius_km"`
	Bio             string   `json:"bio,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

func toProviderResponse(p *domain.Provider) ProviderResponse {
	return ProviderResponse{
		ID:              p.ID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		DetailingRating: p.DetailingRating,
		ServiceRadiusKm: p.ServiceRadiusKm,
		Bio:             p.Bio,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
	}
}

// ProviderOfferResponse pairs a provider with the priced service offer.
type ProviderOfferResponse struct {
	Provider       ProviderResponse `json:"provider"`
	Service        ServiceResponse  `json:"service"`
	EstimatedPrice string           `json:"estimated_price"`
}

// ListServices handles GET /v1/detailing/services
func (h *DetailingHandler) ListServices(c *gin.Context) {
	services, err := h.detailingService.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	language := lang(c)
	responses := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		responses = append(responses, toServiceResponse(s, language))
	}
	respondJSON(c, http.StatusOK, responses)
}

// SearchProvidersRequest is the HTTP request body for a provider search.
type SearchProvidersRequest struct {
	ServiceID string  `json:"service_id"`
	StartTime string  `json:"start_time"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	RadiusKm  float64 `json:"radius_km,omitempty"`
}

// SearchProviders handles POST /v1/detailing/search
func (h *DetailingHandler) SearchProviders(c *gin.Context) {
	var req SearchProvidersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time format, want RFC 3339"})
		return
	}

	offers, err := h.detailingService.FindAvailableProviders(c.Request.Context(), service.SearchProvidersRequest{
		ServiceID: req.ServiceID,
		Start:     start,
		Lat:       req.Lat,
		Lng:       req.Lng,
		RadiusKm:  req.RadiusKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	language := lang(c)
	responses := make([]ProviderOfferResponse, 0, len(offers))
	for _, offer := range offers {
		responses = append(responses, ProviderOfferResponse{
			Provider:       toProviderResponse(offer.Provider),
			Service:        toServiceResponse(offer.Service, language),
			EstimatedPrice: offer.EstimatedPrice.StringFixed(2),
		})
	}
	respondJSON(c, http.StatusOK, responses)
}

// BookDetailingRequest is the HTTP request body for booking a detailing job.
type BookDetailingRequest struct {
	ServiceID  string          `json:"service_id"`
	ProviderID string          `json:"provider_id"`
	VehicleID  string          `json:"vehicle_id,omitempty"`
	StartTime  string          `json:"start_time"`
	Location   LocationPayload `json:"location"`
	Notes      string          `json:"notes,omitempty"`
}

// BookDetailing handles POST /v1/detailing/bookings
func (h *DetailingHandler) BookDetailing(c *gin.Context) {
	var req BookDetailingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time format, want RFC 3339"})
		return
	}

	booking, err := h.detailingService.Book(c.Request.Context(), service.BookDetailingRequest{
		UserID:     userID(c),
		ServiceID:  req.ServiceID,
		ProviderID: req.ProviderID,
		VehicleID:  req.VehicleID,
		Start:      start,
		Location:   domain.Location{Address: req.Location.Address, Lat: req.Location.Lat, Lng: req.Location.Lng},
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// UpdateLocationRequest is the HTTP request body for a provider location ping.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateProviderLocation handles PUT /v1/detailing/providers/:id/location
func (h *DetailingHandler) UpdateProviderLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.detailingService.UpdateProviderLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
