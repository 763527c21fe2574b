package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/kwizerafab/twende-backend/internal/services"
)

// GetDriverNotifications lists a driver's notifications, newest first.
func GetDriverNotifications(relay *services.NotificationRelay) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Access denied"})
			return
		}

		notifications, err := relay.ForDriver(c.Request.Context(), driverID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}
		c.JSON(200, gin.H{"notifications": notifications})
	}
}

// GetPassengerNotifications lists a passenger's notifications, newest first.
func GetPassengerNotifications(relay *services.NotificationRelay) gin.HandlerFunc {
	return func(c *gin.Context) {
		passengerID := c.GetUint("userId")

		notifications, err := relay.ForPassenger(c.Request.Context(), passengerID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}
		c.JSON(200, gin.H{"notifications": notifications})
	}
}

// SendMessage lets a driver send a free-form message to a booking's passenger.
func SendMessage(relay *services.NotificationRelay) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can send messages"})
			return
		}

		var input struct {
			TripID  uint   `json:"tripId" binding:"required"`
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		notification, err := relay.SendMessage(c.Request.Context(), driverID, input.TripID, input.Message)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(201, gin.H{
			"message":        "Message sent to passenger",
			"notificationId": notification.ID,
		})
	}
}

// GetMessages lists the messages drivers sent to this passenger.
func GetMessages(relay *services.NotificationRelay) gin.HandlerFunc {
	return func(c *gin.Context) {
		passengerID := c.GetUint("userId")

		messages, err := relay.PassengerMessages(c.Request.Context(), passengerID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch messages"})
			return
		}
		c.JSON(200, gin.H{"messages": messages})
	}
}
