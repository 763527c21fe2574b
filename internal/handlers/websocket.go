package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/services"
)

// WebSocketHandler upgrades the connection and registers the client on the hub.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		if err := hub.ServeClient(c.Writer, c.Request, userID, userType); err != nil {
			log.Printf("WebSocket upgrade failed for user %d: %v", userID, err)
		}
	}
}
