package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypePassenger UserType = "passenger"
	UserTypeDriver    UserType = "driver"
)

// DriverStatus is the availability state driven by the rating machine.
type DriverStatus string

const (
	DriverStatusActive DriverStatus = "active"
	DriverStatusPaused DriverStatus = "paused"
)

type User struct {
	gorm.Model
	Name         string   `json:"name" gorm:"column:name;not null"`
	Email        string   `json:"email" gorm:"column:email;unique;not null"`
	Password     string   `json:"-" gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string   `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string   `json:"phoneNumber" gorm:"column:phone_number"`
	UserType     UserType `json:"userType" gorm:"column:user_type;not null"`
	ProfileURL   string   `json:"profileUrl" gorm:"column:profile_url"`

	// Driver availability state, mutated only by the rating machine.
	Status         DriverStatus `json:"status" gorm:"column:status;default:'active'"`
	LowRatingStart *time.Time   `json:"lowRatingStart,omitempty" gorm:"column:low_rating_start"`
	PausedAt       *time.Time   `json:"pausedAt,omitempty" gorm:"column:paused_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsDriver() bool {
	return u.UserType == UserTypeDriver
}
