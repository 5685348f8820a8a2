package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"campusride/internal/app"
	"campusride/internal/config"
	"campusride/internal/handler"
	"campusride/internal/mail"
	internalRedis "campusride/internal/redis"
	"campusride/internal/repository/postgres"
	"campusride/internal/service"
)

func main() {
	// Load .env if present, then configuration.
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Start the mail outbox worker.
	outbox := mail.NewOutbox(newMailSender(cfg.SMTP), 256, mail.DefaultRetryPolicy)
	defer outbox.Close()

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, outbox, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// newMailSender picks the SMTP relay or the log sink depending on
// configuration.
func newMailSender(cfg config.SMTPConfig) mail.Sender {
	if !cfg.Enabled || cfg.Host == "" {
		log.Println("SMTP disabled, outgoing mail will be logged")
		return mail.NewLogSender()
	}
	return mail.NewSMTPSender(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.From)
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, outbox *mail.Outbox, cfg *config.Config) *http.Server {
	// Initialize Redis caches.
	studentCache := internalRedis.NewStudentCache(redisClient)

	// Initialize repositories.
	rideRepo := postgres.NewRideRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	studentRepo := postgres.NewStudentRepository(db)

	// Initialize services.
	directory := service.NewIdentityDirectory(studentRepo, studentCache)
	offerService := service.NewOfferService(rideRepo, bookingRepo, directory)
	matchService := service.NewMatchService(rideRepo, directory)
	bookingService := service.NewBookingService(rideRepo, bookingRepo, notificationRepo, directory, outbox)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize handlers.
	rideHandler := handler.NewRideHandler(offerService, matchService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		RideHandler:         rideHandler,
		BookingHandler:      bookingHandler,
		NotificationHandler: notificationHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
		JWTSecret:           cfg.Auth.JWTSecret,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
