package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

func decimalFromFloat(f float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}

// CarsharingHandler handles HTTP requests for carsharing search and booking.
type CarsharingHandler struct {
	carsharingService *service.CarsharingService
}

// NewCarsharingHandler creates a new CarsharingHandler.
func NewCarsharingHandler(carsharingService *service.CarsharingService) *CarsharingHandler {
	return &CarsharingHandler{carsharingService: carsharingService}
}

// SearchVehiclesRequest is the HTTP request body for a vehicle search.
type SearchVehiclesRequest struct {
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	RadiusKm  float64 `json:"radius_km,omitempty"`
}

// VehicleResponse is the HTTP representation of a vehicle.
type VehicleResponse struct {
	ID              string   `json:"id"`
	OwnerID         string   `json:"owner_id"`
	Make            string   `json:"make"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	LicensePlate    string   `json:"license_plate,omitempty"`
	Color           string   `json:"color,omitempty"`
	VehicleType     string   `json:"vehicle_type,omitempty"`
	SeatingCapacity int      `json:"seating_capacity,omitempty"`
	FuelType        string   `json:"fuel_type,omitempty"`
	Transmission    string   `json:"transmission,omitempty"`
	HourlyRate      string   `json:"hourly_rate,omitempty"`
	DailyRate       string   `json:"daily_rate,omitempty"`
	IsAvailable     bool     `json:"is_available"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:              v.ID,
		OwnerID:         v.OwnerID,
		Make:            v.Make,
		Model:           v.Model,
		Year:            v.Year,
		LicensePlate:    v.LicensePlate,
		Color:           v.Color,
		VehicleType:     v.VehicleType,
		SeatingCapacity: v.SeatingCapacity,
		FuelType:        v.FuelType,
		Transmission:    v.Transmission,
		IsAvailable:     v.IsAvailable,
		Latitude:        v.Latitude,
		Longitude:       v.Longitude,
	}
	if v.HourlyRate.Valid {
		resp.HourlyRate = v.HourlyRate.Decimal.StringFixed(2)
	}
	if v.DailyRate.Valid {
		resp.DailyRate = v.DailyRate.Decimal.StringFixed(2)
	}
	return resp
}

// parseInterval builds a booking interval from RFC 3339 strings. An empty end
// means open-ended.
func parseInterval(start, end string) (domain.Interval, bool) {
	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return domain.Interval{}, false
	}
	var endAt time.Time
	if end != "" {
		endAt, err = time.Parse(time.RFC3339, end)
		if err != nil {
			return domain.Interval{}, false
		}
	}
	return domain.NewInterval(startAt, endAt), true
}

// SearchVehicles handles POST /v1/carsharing/search
func (h *CarsharingHandler) SearchVehicles(c *gin.Context) {
	var req SearchVehiclesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	interval, ok := parseInterval(req.StartTime, req.EndTime)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time format, want RFC 3339"})
		return
	}

	vehicles, err := h.carsharingService.FindAvailableVehicles(c.Request.Context(), service.SearchVehiclesRequest{
		Interval: interval,
		Lat:      req.Lat,
		Lng:      req.Lng,
		RadiusKm: req.RadiusKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		responses = append(responses, toVehicleResponse(v))
	}
	respondJSON(c, http.StatusOK, responses)
}

// QuoteRequest is the HTTP request body for a price quote.
type QuoteRequest struct {
	VehicleID string `json:"vehicle_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
}

// QuoteResponse is the HTTP response for a price quote.
type QuoteResponse struct {
	VehicleID  string `json:"vehicle_id"`
	TotalPrice string `json:"total_price"`
}

// Quote handles POST /v1/carsharing/quote
func (h *CarsharingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	interval, ok := parseInterval(req.StartTime, req.EndTime)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time format, want RFC 3339"})
		return
	}

	price, err := h.carsharingService.Quote(c.Request.Context(), req.VehicleID, interval)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		VehicleID:  req.VehicleID,
		TotalPrice: price.StringFixed(2),
	})
}

// BookVehicleRequest is the HTTP request body for booking a vehicle.
type BookVehicleRequest struct {
	VehicleID string           `json:"vehicle_id"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time,omitempty"`
	Pickup    LocationPayload  `json:"pickup"`
	Dropoff   *LocationPayload `json:"dropoff,omitempty"`
}

// BookVehicle handles POST /v1/carsharing/bookings
func (h *CarsharingHandler) BookVehicle(c *gin.Context) {
	var req BookVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	interval, ok := parseInterval(req.StartTime, req.EndTime)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time format, want RFC 3339"})
		return
	}

	bookReq := service.BookVehicleRequest{
		UserID:    userID(c),
		VehicleID: req.VehicleID,
		Interval:  interval,
		Pickup:    domain.Location{Address: req.Pickup.Address, Lat: req.Pickup.Lat, Lng: req.Pickup.Lng},
	}
	if req.Dropoff != nil {
		bookReq.Dropoff = &domain.Location{Address: req.Dropoff.Address, Lat: req.Dropoff.Lat, Lng: req.Dropoff.Lng}
	}

	booking, err := h.carsharingService.Book(c.Request.Context(), bookReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// RegisterVehicleRequest is the HTTP request body for registering a vehicle.
type RegisterVehicleRequest struct {
	Make            string   `json:"make"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	LicensePlate    string   `json:"license_plate"`
	Color           string   `json:"color,omitempty"`
	VehicleType     string   `json:"vehicle_type,omitempty"`
	SeatingCapacity int      `json:"seating_capacity,omitempty"`
	FuelType        string   `json:"fuel_type,omitempty"`
	Transmission    string   `json:"transmission,omitempty"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`
	DailyRate       *float64 `json:"daily_rate,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// RegisterVehicle handles POST /v1/vehicles
func (h *CarsharingHandler) RegisterVehicle(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicle := &domain.Vehicle{
		OwnerID:         userID(c),
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		LicensePlate:    req.LicensePlate,
		Color:           req.Color,
		VehicleType:     req.VehicleType,
		SeatingCapacity: req.SeatingCapacity,
		FuelType:        req.FuelType,
		Transmission:    req.Transmission,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}
	if req.HourlyRate != nil {
		vehicle.HourlyRate = decimalFromFloat(*req.HourlyRate)
	}
	if req.DailyRate != nil {
		vehicle.DailyRate = decimalFromFloat(*req.DailyRate)
	}

	created, err := h.carsharingService.RegisterVehicle(c.Request.Context(), vehicle)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toVehicleResponse(created))
}

// GetVehicle handles GET /v1/vehicles/:id
func (h *CarsharingHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.carsharingService.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}
