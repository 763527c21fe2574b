package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kwizerafab/twende-backend/internal/models"
	"gorm.io/gorm"
)

// BookingWorkflow orchestrates bookings against the trip ledger. Seat
// reservation and booking creation run in one transaction; the driver
// notification is appended after commit and is best-effort.
type BookingWorkflow struct {
	db     *gorm.DB
	ledger *TripLedger
	relay  *NotificationRelay
}

func NewBookingWorkflow(db *gorm.DB, ledger *TripLedger, relay *NotificationRelay) *BookingWorkflow {
	return &BookingWorkflow{db: db, ledger: ledger, relay: relay}
}

// BookTrip reserves seats and records the booking atomically. A losing
// concurrent caller gets InsufficientCapacityError carrying the seats that
// are actually left.
func (w *BookingWorkflow) BookTrip(ctx context.Context, tripID, passengerID uint, seats int, bookingTime time.Time) (*models.Booking, error) {
	if seats <= 0 {
		return nil, ErrInvalidSeatCount
	}

	var booking models.Booking
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trip models.Trip
		if err := tx.First(&trip, tripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		if _, err := w.ledger.WithTx(tx).ReserveSeats(ctx, tripID, seats); err != nil {
			return err
		}

		booking = models.Booking{
			TripID:      tripID,
			PassengerID: passengerID,
			DriverID:    trip.DriverID,
			BookingTime: bookingTime,
			Status:      models.BookingStatusPending,
			BookedSeats: seats,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	// Notification delivery is not atomic with the booking: the booking
	// stands even if the append fails, but the failure is never swallowed.
	if _, err := w.relay.Create(ctx, models.Notification{
		DriverID:    booking.DriverID,
		PassengerID: passengerID,
		TripID:      tripID,
		Message:     "New booking request",
		Status:      models.NotificationStatusPending,
	}); err != nil {
		log.Printf("booking %d: driver notification failed: %v", booking.ID, err)
	}

	if err := PublishBookingEvent(ctx, booking.ID, tripID, booking.DriverID, seats); err != nil {
		log.Printf("booking %d: event publish failed: %v", booking.ID, err)
	}

	return &booking, nil
}

// PayBooking advances a booking from Pending to Paid.
func (w *BookingWorkflow) PayBooking(ctx context.Context, bookingID uint) error {
	return w.advance(ctx, bookingID, models.BookingStatusPending, models.BookingStatusPaid)
}

// ConfirmBooking advances a booking from Paid to Confirmed. Confirmed is
// terminal.
func (w *BookingWorkflow) ConfirmBooking(ctx context.Context, bookingID uint) error {
	return w.advance(ctx, bookingID, models.BookingStatusPaid, models.BookingStatusConfirmed)
}

func (w *BookingWorkflow) advance(ctx context.Context, bookingID uint, from, to models.BookingStatus) error {
	result := w.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var booking models.Booking
	err := w.db.WithContext(ctx).Select("status").First(&booking, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if booking.Status == from {
		// Existed in the right state when we read it, so a concurrent
		// writer beat the conditional update.
		return ErrConflictDuringUpdate
	}
	return ErrInvalidState
}

func (w *BookingWorkflow) GetBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := w.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// PassengerBooking is a booking joined with its trip and driver.
type PassengerBooking struct {
	BookingID         uint                 `json:"bookingId"`
	TripID            uint                 `json:"tripId"`
	Destination       string               `json:"destination"`
	DepartureLocation string               `json:"departureLocation"`
	AvailableSeats    int                  `json:"availableSeats"`
	BookingTime       time.Time            `json:"bookingTime"`
	DriverName        string               `json:"driverName"`
	DriverID          uint                 `json:"driverId"`
	BookedSeats       int                  `json:"bookedSeats"`
	Status            models.BookingStatus `json:"status"`
}

// PassengerBookings lists a passenger's bookings with trip and driver context.
func (w *BookingWorkflow) PassengerBookings(ctx context.Context, passengerID uint) ([]PassengerBooking, error) {
	var bookings []PassengerBooking
	err := w.db.WithContext(ctx).Table("bookings").
		Select(`bookings.id AS booking_id, trips.id AS trip_id, trips.destination,
			trips.departure_location, trips.available_seats, bookings.booking_time,
			users.name AS driver_name, trips.driver_id, bookings.booked_seats, bookings.status`).
		Joins("JOIN trips ON trips.id = bookings.trip_id").
		Joins("JOIN users ON users.id = trips.driver_id").
		Where("bookings.passenger_id = ? AND bookings.deleted_at IS NULL", passengerID).
		Order("bookings.booking_time DESC").
		Scan(&bookings).Error
	return bookings, err
}

// DriverBookings lists bookings taken on a driver's trips.
func (w *BookingWorkflow) DriverBookings(ctx context.Context, driverID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := w.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("booking_time DESC").
		Find(&bookings).Error
	return bookings, err
}
