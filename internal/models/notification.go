package models

import (
	"gorm.io/gorm"
)

type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "Pending"
	NotificationStatusConfirmed NotificationStatus = "Confirmed"
	NotificationStatusSent      NotificationStatus = "Sent"
	NotificationStatusUnseen    NotificationStatus = "Unseen"
)

// Notification is an append-only event between a driver and a passenger.
// PassengerID and TripID are zero for driver-only reminders.
type Notification struct {
	gorm.Model
	DriverID    uint               `json:"driverId" gorm:"not null;index"`
	PassengerID uint               `json:"passengerId" gorm:"index"`
	TripID      uint               `json:"tripId"`
	Message     string             `json:"message" gorm:"not null"`
	Status      NotificationStatus `json:"status" gorm:"not null;default:'Pending'"`
}
