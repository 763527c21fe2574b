package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/kwizerafab/twende-backend/internal/services"
	"gorm.io/gorm"
)

// AddTrip lets a driver post a trip with a seat capacity.
func AddTrip(ledger *services.TripLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can add trips"})
			return
		}

		var input struct {
			PlateNumber       string    `json:"plateNumber" binding:"required"`
			Destination       string    `json:"destination" binding:"required"`
			DepartureLocation string    `json:"departureLocation" binding:"required"`
			TripTime          time.Time `json:"tripTime" binding:"required"`
			AvailableSeats    int       `json:"availableSeats" binding:"required"`
			Amount            float64   `json:"amount" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		trip, err := ledger.PostTrip(c.Request.Context(), driverID, services.PostTripInput{
			PlateNumber:       input.PlateNumber,
			Destination:       input.Destination,
			DepartureLocation: input.DepartureLocation,
			TripTime:          input.TripTime,
			AvailableSeats:    input.AvailableSeats,
			Amount:            input.Amount,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(201, gin.H{"tripId": trip.ID})
	}
}

// GetDriverTrips lists the calling driver's posted trips.
func GetDriverTrips(ledger *services.TripLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		trips, err := ledger.DriverTrips(c.Request.Context(), driverID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Error fetching trips"})
			return
		}
		c.JSON(200, trips)
	}
}

// GetAvailableTrips lists every trip that still has open seats.
func GetAvailableTrips(ledger *services.TripLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		trips, err := ledger.AvailableTrips(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Error fetching available trips"})
			return
		}
		if len(trips) == 0 {
			c.JSON(404, gin.H{"error": "No available trips found"})
			return
		}
		c.JSON(200, trips)
	}
}

// GetAvailableDrivers searches drivers by route, with fallback alternatives.
func GetAvailableDrivers(ledger *services.TripLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		departure := c.Query("departure_location")
		destination := c.Query("destination")
		if departure == "" || destination == "" {
			c.JSON(400, gin.H{"error": "Please provide both departure location and destination"})
			return
		}

		trips, fallback, err := ledger.AvailableDrivers(c.Request.Context(), departure, destination)
		if err != nil {
			c.JSON(500, gin.H{"error": "Error fetching available drivers"})
			return
		}
		if len(trips) == 0 {
			c.JSON(404, gin.H{"error": "No drivers available at this time"})
			return
		}

		response := gin.H{"drivers": trips}
		if fallback {
			response["message"] = "No drivers available for this route. Showing alternative drivers."
		}
		c.JSON(200, response)
	}
}

// GetTripDetails returns a trip with its passenger manifest.
func GetTripDetails(ledger *services.TripLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, err := strconv.ParseUint(c.Param("tripId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip ID"})
			return
		}

		details, err := ledger.TripDetails(c.Request.Context(), uint(tripID))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(200, details)
	}
}

// GetTripSeats returns just the remaining seat count for a trip.
func GetTripSeats(ledger *services.TripLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, err := strconv.ParseUint(c.Param("tripId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip ID"})
			return
		}

		trip, err := ledger.GetTrip(c.Request.Context(), uint(tripID))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(200, gin.H{"availableSeats": trip.AvailableSeats})
	}
}

// GetCurrentTrip returns the most recently posted open trip.
func GetCurrentTrip(ledger *services.TripLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		trip, err := ledger.CurrentTrip(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(200, gin.H{"trip": trip})
	}
}

// GetLocations lists pickup/dropoff locations, cached in Redis.
func GetLocations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if cached, err := services.GetCachedLocations(ctx); err == nil {
			c.JSON(200, gin.H{"locations": cached})
			return
		}

		var locations []models.Location
		if err := db.WithContext(ctx).Order("name").Find(&locations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch locations"})
			return
		}

		names := make([]string, 0, len(locations))
		for _, location := range locations {
			names = append(names, location.Name)
		}

		// Best-effort cache fill; a miss next time is fine.
		_ = services.CacheLocations(ctx, names)

		c.JSON(200, gin.H{"locations": names})
	}
}
