package models

import (
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusDone    PaymentStatus = "DONE"
)

// Payment is upserted keyed by booking id: re-uploading a proof
// overwrites the previous reference.
type Payment struct {
	gorm.Model
	BookingID      uint          `json:"bookingId" gorm:"uniqueIndex;not null"`
	Booking        Booking       `json:"-" gorm:"foreignKey:BookingID"`
	ProofReference string        `json:"proofReference"`
	Status         PaymentStatus `json:"status" gorm:"not null;default:'Pending'"`
}
