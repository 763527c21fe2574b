package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusPaid      BookingStatus = "Paid"
	BookingStatusConfirmed BookingStatus = "Confirmed"
)

type Booking struct {
	gorm.Model
	TripID      uint          `json:"tripId" gorm:"not null;index"`
	Trip        Trip          `json:"trip" gorm:"foreignKey:TripID"`
	PassengerID uint          `json:"passengerId" gorm:"not null;index"`
	Passenger   User          `json:"passenger" gorm:"foreignKey:PassengerID"`
	DriverID    uint          `json:"driverId" gorm:"not null;index"`
	BookingTime time.Time     `json:"bookingTime" gorm:"not null"`
	Status      BookingStatus `json:"status" gorm:"not null;default:'Pending'"`
	BookedSeats int           `json:"bookedSeats" gorm:"not null"`
}
