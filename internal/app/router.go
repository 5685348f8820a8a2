package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"campusride/internal/handler"
	"campusride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler         *handler.RideHandler
	BookingHandler      *handler.BookingHandler
	NotificationHandler *handler.NotificationHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
	JWTSecret           string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.BearerAuth(deps.JWTSecret)
	idempotency := middleware.IdempotencyMiddleware(deps.RedisClient)

	// Ride routes.
	rides := router.Group("/rides", auth, idempotency)
	{
		rides.POST("/offer-ride", deps.RideHandler.OfferRide)
		rides.POST("/find-ride", deps.RideHandler.FindRide)
		rides.GET("/offered-history", deps.RideHandler.OfferedHistory)

		rides.POST("/:rideId/request", deps.BookingHandler.RequestRide)
		rides.GET("/requests", deps.BookingHandler.ListRequests)
		rides.GET("/bookings", deps.BookingHandler.ListBookings)
		rides.GET("/dashboard", deps.BookingHandler.Dashboard)

		rides.PUT("/:rideId/requests/:bookingId/accept", deps.BookingHandler.Accept)
		rides.PUT("/:rideId/requests/:bookingId/reject", deps.BookingHandler.Reject)
		rides.PUT("/:rideId/requests/:bookingId/cancel", deps.BookingHandler.Cancel)
	}

	// Notification routes.
	notifications := router.Group("/notifications", auth)
	{
		notifications.GET("", deps.NotificationHandler.List)
		notifications.PUT("/read-all", deps.NotificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", deps.NotificationHandler.MarkRead)
	}

	return router
}
