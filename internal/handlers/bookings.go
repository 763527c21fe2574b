package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/kwizerafab/twende-backend/internal/services"
)

// BookTrip reserves seats on a trip for the calling passenger.
func BookTrip(workflow *services.BookingWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		passengerID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypePassenger) {
			c.JSON(403, gin.H{"error": "Only passengers can book trips"})
			return
		}

		var input struct {
			TripID        uint       `json:"tripId" binding:"required"`
			NumberOfSeats int        `json:"numberOfSeats" binding:"required"`
			BookingTime   *time.Time `json:"bookingTime"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		bookingTime := time.Now()
		if input.BookingTime != nil {
			bookingTime = *input.BookingTime
		}

		booking, err := workflow.BookTrip(c.Request.Context(), input.TripID, passengerID, input.NumberOfSeats, bookingTime)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(201, gin.H{
			"message":   "Booking successful, notification sent to driver",
			"bookingId": booking.ID,
			"status":    booking.Status,
		})
	}
}

// PayBooking moves a pending booking to Paid.
func PayBooking(workflow *services.BookingWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		if err := workflow.PayBooking(c.Request.Context(), uint(bookingID)); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Payment successful!"})
	}
}

// ConfirmBooking moves a paid booking to Confirmed. Drivers confirm
// bookings on their own trips.
func ConfirmBooking(workflow *services.BookingWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can confirm bookings"})
			return
		}

		bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		booking, err := workflow.GetBooking(c.Request.Context(), uint(bookingID))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if booking.DriverID != driverID {
			c.JSON(403, gin.H{"error": "Access denied"})
			return
		}

		if err := workflow.ConfirmBooking(c.Request.Context(), uint(bookingID)); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Booking confirmed"})
	}
}

// GetPassengerBookings lists the calling passenger's bookings.
func GetPassengerBookings(workflow *services.BookingWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		passengerID := c.GetUint("userId")

		bookings, err := workflow.PassengerBookings(c.Request.Context(), passengerID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}
		c.JSON(200, bookings)
	}
}

// GetDriverBookings lists bookings taken on the calling driver's trips.
func GetDriverBookings(workflow *services.BookingWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Access denied"})
			return
		}

		bookings, err := workflow.DriverBookings(c.Request.Context(), driverID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}
		c.JSON(200, bookings)
	}
}
