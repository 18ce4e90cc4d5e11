package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"marketplace/internal/handler"
	"marketplace/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CarsharingHandler   *handler.CarsharingHandler
	DetailingHandler    *handler.DetailingHandler
	BusHandler          *handler.BusHandler
	BookingHandler      *handler.BookingHandler
	ReviewHandler       *handler.ReviewHandler
	PaymentHandler      *handler.PaymentHandler
	NotificationHandler *handler.NotificationHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Carsharing routes.
		carsharing := v1.Group("/carsharing")
		{
			carsharing.POST("/search", deps.CarsharingHandler.SearchVehicles)
			carsharing.POST("/quote", deps.CarsharingHandler.Quote)
			carsharing.POST("/bookings", deps.CarsharingHandler.BookVehicle)
		}

		// Vehicle routes.
		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("", deps.CarsharingHandler.RegisterVehicle)
			vehicles.GET("/:id", deps.CarsharingHandler.GetVehicle)
		}

		// Detailing routes.
		detailing := v1.Group("/detailing")
		{
			detailing.GET("/services", deps.DetailingHandler.ListServices)
			detailing.POST("/search", deps.DetailingHandler.SearchProviders)
			detailing.POST("/bookings", deps.DetailingHandler.BookDetailing)
			detailing.PUT("/providers/:id/location", deps.DetailingHandler.UpdateProviderLocation)
		}

		// Bus routes.
		bus := v1.Group("/bus")
		{
			bus.GET("/routes", deps.BusHandler.ListRoutes)
			bus.GET("/routes/:id/seats", deps.BusHandler.ListSeats)
			bus.POST("/bookings", deps.BusHandler.BookSeat)
		}

		// Shared booking lifecycle routes.
		bookings := v1.Group("/bookings")
		{
			bookings.GET("/upcoming", deps.BookingHandler.Upcoming)
			bookings.GET("/history", deps.BookingHandler.History)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
			bookings.POST("/:id/start", deps.BookingHandler.StartBooking)
			bookings.POST("/:id/complete", deps.BookingHandler.CompleteBooking)
		}

		// Review routes.
		reviews := v1.Group("/reviews")
		{
			reviews.POST("", deps.ReviewHandler.SubmitReview)
			reviews.GET("/targets/:id", deps.ReviewHandler.ListTargetReviews)
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.ConfirmPayment)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
		}

		// Notification routes.
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", deps.NotificationHandler.ListNotifications)
			notifications.POST("/:id/read", deps.NotificationHandler.MarkNotificationRead)
		}
	}

	return router
}
