package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/kwizerafab/twende-backend/pkg/utils"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	UserType string `json:"userType" binding:"required,oneof=passenger driver"`
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user := models.User{
			Name:        input.Name,
			Email:       input.Email,
			Password:    input.Password,
			PhoneNumber: input.Phone,
			UserType:    models.UserType(input.UserType),
			Status:      models.DriverStatusActive,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if result := db.Create(&user); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create user: " + result.Error.Error()})
			return
		}

		c.JSON(201, gin.H{
			"message": "User registered successfully",
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"name":     user.Name,
				"userType": user.UserType,
			},
		})
	}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials and issues a second-factor OTP by email.
// The token itself is only released by VerifyOTP.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid email or password"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid email or password"})
			return
		}

		// Invalidate any OTP still pending for this user
		db.Model(&models.OTP{}).
			Where("user_id = ? AND type = ? AND used = ? AND expires_at > ?",
				user.ID, models.OTPTypeLogin, false, time.Now()).
			Update("used", true)

		timestamp := time.Now().Format("20060102150405")
		uniqueKey := fmt.Sprintf("%s-login-%s", user.Email, timestamp)
		otp := utils.GenerateOTP(uniqueKey)

		otpRecord := models.OTP{
			UserID:    user.ID,
			Code:      otp,
			Type:      models.OTPTypeLogin,
			ExpiresAt: time.Now().Add(utils.OTPExpiration),
		}
		if result := db.Create(&otpRecord); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to generate OTP"})
			return
		}

		if err := utils.SendLoginOTP(user.Email, otp); err != nil {
			c.JSON(500, gin.H{"error": "Failed to send OTP"})
			return
		}

		c.JSON(200, gin.H{
			"message": "OTP sent to your email. Please verify to complete login.",
		})
	}
}

type VerifyOTPInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTP completes login: a valid code yields the JWT.
func VerifyOTP(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid or expired OTP"})
			return
		}

		var otpRecord models.OTP
		result := db.Where("user_id = ? AND code = ? AND type = ?",
			user.ID, input.OTP, models.OTPTypeLogin).
			Order("created_at DESC").
			First(&otpRecord)
		if result.Error != nil || !otpRecord.IsValid() {
			c.JSON(401, gin.H{"error": "Invalid or expired OTP"})
			return
		}

		if err := otpRecord.MarkAsUsed(db); err != nil {
			c.JSON(500, gin.H{"error": "Failed to verify OTP"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"name":     user.Name,
				"email":    user.Email,
				"userType": user.UserType,
			},
		})
	}
}
