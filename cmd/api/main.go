package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kwizerafab/twende-backend/internal/database"
	"github.com/kwizerafab/twende-backend/internal/handlers"
	"github.com/kwizerafab/twende-backend/internal/middleware"
	"github.com/kwizerafab/twende-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Redis is optional; caching degrades gracefully without it.
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	// Initialize storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Wire services
	relay := services.NewNotificationRelay(db, hub)
	ledger := services.NewTripLedger(db)
	workflow := services.NewBookingWorkflow(db, ledger, relay)
	reconciler := services.NewPaymentReconciler(db, relay)
	ratings := services.NewRatingService(db, relay)
	extractor := services.NewOCRClient()

	// Background sweep that reactivates drivers paused for over a week
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go services.RunAutoUnpauseLoop(ctx, ratings, 24*time.Hour)

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/app/uploads"
	}
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
			auth.POST("/verify-otp", handlers.VerifyOTP(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.GET("/driver-status", handlers.GetDriverStatus(db))
			}

			trips := protected.Group("/trips")
			{
				trips.POST("", handlers.AddTrip(ledger))
				trips.GET("", handlers.GetAvailableTrips(ledger))
				trips.GET("/driver", handlers.GetDriverTrips(ledger))
				trips.GET("/drivers", handlers.GetAvailableDrivers(ledger))
				trips.GET("/current", handlers.GetCurrentTrip(ledger))
				trips.GET("/locations", handlers.GetLocations(db))
				trips.GET("/:tripId/details", handlers.GetTripDetails(ledger))
				trips.GET("/:tripId/seats", handlers.GetTripSeats(ledger))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.BookTrip(workflow))
				bookings.GET("/passenger", handlers.GetPassengerBookings(workflow))
				bookings.GET("/driver", handlers.GetDriverBookings(workflow))
				bookings.POST("/:bookingId/pay", handlers.PayBooking(workflow))
				bookings.POST("/:bookingId/confirm", handlers.ConfirmBooking(workflow))
			}

			payments := protected.Group("/payments")
			{
				payments.POST("/:bookingId/proof", handlers.UploadProof(reconciler, extractor))
				payments.POST("/:bookingId/verify", handlers.VerifyPayment(reconciler))
			}

			driverRatings := protected.Group("/ratings")
			{
				driverRatings.POST("", handlers.RateDriver(ratings))
				driverRatings.GET("/check", handlers.CheckRating(ratings))
			}

			earnings := protected.Group("/earnings")
			{
				earnings.GET("", handlers.GetEarnings(ratings))
				earnings.POST("/reminder", handlers.SendReminder(ratings))
				earnings.GET("/reminders", handlers.GetEarningsReminders(relay))
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("/driver", handlers.GetDriverNotifications(relay))
				notifications.GET("/passenger", handlers.GetPassengerNotifications(relay))
				notifications.POST("/message", handlers.SendMessage(relay))
				notifications.GET("/messages", handlers.GetMessages(relay))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
