package models

import (
	"time"

	"gorm.io/gorm"
)

// Rating is append-only. The composite unique index keeps a passenger
// from rating the same booking twice.
type Rating struct {
	gorm.Model
	BookingID   uint      `json:"bookingId" gorm:"not null;uniqueIndex:idx_ratings_booking_passenger"`
	TripID      uint      `json:"tripId" gorm:"not null"`
	DriverID    uint      `json:"driverId" gorm:"not null;index"`
	PassengerID uint      `json:"passengerId" gorm:"not null;uniqueIndex:idx_ratings_booking_passenger"`
	Rating      int       `json:"rating" gorm:"not null"`
	RatingDate  time.Time `json:"ratingDate" gorm:"not null;index"`
}
