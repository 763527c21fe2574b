package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/kwizerafab/twende-backend/internal/services"
	"gorm.io/gorm"
)

// GetProfile returns the authenticated user's profile.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondServiceError(c, services.ErrUserNotFound)
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"phoneNumber": user.PhoneNumber,
			"userType":    user.UserType,
			"profileUrl":  user.ProfileURL,
			"status":      user.Status,
		})
	}
}

// GetDriverStatus returns the driver's availability, served from the
// redis cache when warm.
func GetDriverStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Access denied"})
			return
		}

		ctx := c.Request.Context()
		if status, err := services.GetCachedDriverStatus(ctx, driverID); err == nil {
			c.JSON(200, gin.H{"status": status})
			return
		}

		var driver models.User
		if err := db.WithContext(ctx).Select("status").First(&driver, driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondServiceError(c, services.ErrDriverNotFound)
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch driver status"})
			return
		}

		// Best-effort cache fill for the next lookup.
		_ = services.CacheDriverStatus(ctx, driverID, driver.Status)

		c.JSON(200, gin.H{"status": driver.Status})
	}
}

// UpdateProfile updates the user's name, phone number and profile picture.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondServiceError(c, services.ErrUserNotFound)
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch profile"})
			return
		}

		name := c.PostForm("name")
		phoneNumber := c.PostForm("phoneNumber")

		updates := map[string]interface{}{}
		if name != "" {
			updates["name"] = name
		}
		if phoneNumber != "" {
			updates["phone_number"] = phoneNumber
		}

		if file, err := c.FormFile("profilePicture"); err == nil {
			url, err := services.UploadImage(file, "profiles")
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to upload profile picture"})
				return
			}
			updates["profile_url"] = url
		}

		if len(updates) > 0 {
			if err := db.WithContext(c.Request.Context()).Model(&user).Updates(updates).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update profile"})
				return
			}
		}

		c.JSON(200, gin.H{"message": "Profile updated successfully"})
	}
}
