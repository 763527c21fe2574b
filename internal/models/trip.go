package models

import (
	"time"

	"gorm.io/gorm"
)

type Trip struct {
	gorm.Model
	DriverID          uint      `json:"driverId" gorm:"not null;index"`
	Driver            User      `json:"driver" gorm:"foreignKey:DriverID"`
	PlateNumber       string    `json:"plateNumber" gorm:"not null"`
	Destination       string    `json:"destination" gorm:"not null"`
	DepartureLocation string    `json:"departureLocation" gorm:"not null"`
	TripTime          time.Time `json:"tripTime" gorm:"not null"`
	AvailableSeats    int       `json:"availableSeats" gorm:"not null"`
	Amount            float64   `json:"amount" gorm:"not null"`
}
