package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/kwizerafab/twende-backend/internal/services"
)

// RateDriver records a passenger's rating for a booking they made.
func RateDriver(ratings *services.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		passengerID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypePassenger) {
			c.JSON(403, gin.H{"error": "Only passengers can rate drivers"})
			return
		}

		var input struct {
			BookingID uint `json:"bookingId" binding:"required"`
			Rating    int  `json:"rating" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		rating, err := ratings.SubmitRating(c.Request.Context(), input.BookingID, passengerID, input.Rating, time.Now())
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(201, gin.H{
			"message":  "Rating submitted successfully!",
			"ratingId": rating.ID,
		})
	}
}

// CheckRating reports whether a booking has been rated yet.
func CheckRating(ratings *services.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := strconv.ParseUint(c.Query("booking_id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Booking ID is required"})
			return
		}

		exists, err := ratings.HasRating(c.Request.Context(), uint(bookingID))
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to check rating"})
			return
		}
		c.JSON(200, gin.H{"ratingSubmitted": exists})
	}
}

// GetEarnings returns the driver's weekly rating summary and runs the
// availability machine on the fresh numbers.
func GetEarnings(ratings *services.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Access denied"})
			return
		}

		report, err := ratings.EvaluateDriverStatus(c.Request.Context(), driverID, time.Now())
		if err != nil {
			respondServiceError(c, err)
			return
		}

		response := gin.H{
			"averageRating": report.AverageRating,
			"totalRatings":  report.TotalRatings,
			"status":        report.Status,
		}
		if report.StatusChanged && report.Status == models.DriverStatusPaused {
			response["message"] = "Driver paused due to low weekly rating."
		}
		c.JSON(200, response)
	}
}

// SendReminder appends a low-rating reminder when the driver's all-time
// average is below the pause threshold.
func SendReminder(ratings *services.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Access denied"})
			return
		}

		reminder, average, err := ratings.SendLowRatingReminder(c.Request.Context(), driverID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		if reminder == nil {
			c.JSON(200, gin.H{"message": "Driver rating is fine.", "averageRating": average})
			return
		}
		c.JSON(200, gin.H{"message": "Reminder sent to driver", "averageRating": average})
	}
}

// GetEarningsReminders lists the driver's reminders, with a default row
// when none exist yet.
func GetEarningsReminders(relay *services.NotificationRelay) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		reminders, err := relay.DriverReminders(c.Request.Context(), driverID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reminders"})
			return
		}

		if len(reminders) == 0 {
			c.JSON(200, gin.H{
				"reminders": []gin.H{{
					"id":         nil,
					"message":    services.DefaultReminderMessage,
					"status":     "default",
					"created_at": time.Now().Format(time.RFC3339),
				}},
			})
			return
		}
		c.JSON(200, gin.H{"reminders": reminders})
	}
}
