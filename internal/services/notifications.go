package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kwizerafab/twende-backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRelay is the append-only event log between drivers and
// passengers. Rows are never updated or deleted by callers; other
// components only append with the status that fits the event.
type NotificationRelay struct {
	db  *gorm.DB
	hub *Hub
}

func NewNotificationRelay(db *gorm.DB, hub *Hub) *NotificationRelay {
	return &NotificationRelay{db: db, hub: hub}
}

// Create appends a notification and pushes it to connected websocket
// clients. The push is best-effort; only the insert can fail the call.
func (r *NotificationRelay) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, err
	}
	r.push(&n)
	return &n, nil
}

func (r *NotificationRelay) push(n *models.Notification) {
	if r.hub == nil {
		return
	}
	payload, err := json.Marshal(WebSocketMessage{Type: "notification", Data: n})
	if err != nil {
		return
	}
	r.hub.BroadcastToUser(n.DriverID, payload)
	if n.PassengerID != 0 {
		r.hub.BroadcastToUser(n.PassengerID, payload)
	}
}

// DriverNotification is a notification joined with passenger and trip
// context so the driver app can render it without extra lookups.
type DriverNotification struct {
	ID                uint                      `json:"id"`
	TripID            uint                      `json:"tripId"`
	PassengerID       uint                      `json:"passengerId"`
	Message           string                    `json:"message"`
	Status            models.NotificationStatus `json:"status"`
	CreatedAt         time.Time                 `json:"createdAt"`
	PassengerName     string                    `json:"passengerName"`
	PassengerPhone    string                    `json:"passengerPhone"`
	DepartureLocation string                    `json:"departureLocation"`
	Destination       string                    `json:"destination"`
	BookingTime       time.Time                 `json:"bookingTime"`
}

// ForDriver lists a driver's notifications newest-first with booking details.
// The booking join matches one row per booking, so a passenger with several
// bookings on the same trip would repeat each notification; DISTINCT ON
// collapses that to one row carrying the most recent booking. Ids are
// assigned monotonically, so id DESC is newest-first.
func (r *NotificationRelay) ForDriver(ctx context.Context, driverID uint) ([]DriverNotification, error) {
	var rows []DriverNotification
	err := r.db.WithContext(ctx).Table("notifications").
		Select(`DISTINCT ON (notifications.id)
			notifications.id, notifications.trip_id, notifications.passenger_id,
			notifications.message, notifications.status, notifications.created_at,
			users.name AS passenger_name, users.phone_number AS passenger_phone,
			trips.departure_location, trips.destination, bookings.booking_time`).
		Joins("JOIN users ON users.id = notifications.passenger_id").
		Joins("JOIN trips ON trips.id = notifications.trip_id").
		Joins(`JOIN bookings ON bookings.trip_id = trips.id
			AND bookings.passenger_id = notifications.passenger_id
			AND bookings.driver_id = notifications.driver_id`).
		Where("notifications.driver_id = ? AND notifications.deleted_at IS NULL", driverID).
		Order("notifications.id DESC, bookings.booking_time DESC").
		Scan(&rows).Error
	return rows, err
}

// ForPassenger lists a passenger's notifications newest-first.
func (r *NotificationRelay) ForPassenger(ctx context.Context, passengerID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("passenger_id = ?", passengerID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// SendMessage relays a driver's message to the passenger booked on a trip.
func (r *NotificationRelay) SendMessage(ctx context.Context, driverID, tripID uint, message string) (*models.Notification, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND driver_id = ?", tripID, driverID).
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return r.Create(ctx, models.Notification{
		DriverID:    driverID,
		PassengerID: booking.PassengerID,
		TripID:      tripID,
		Message:     message,
		Status:      models.NotificationStatusSent,
	})
}

// PassengerMessages lists driver messages delivered to a passenger.
func (r *NotificationRelay) PassengerMessages(ctx context.Context, passengerID uint) ([]models.Notification, error) {
	var messages []models.Notification
	err := r.db.WithContext(ctx).
		Where("passenger_id = ? AND status = ?", passengerID, models.NotificationStatusSent).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// DriverReminders lists low-rating reminders for a driver newest-first.
func (r *NotificationRelay) DriverReminders(ctx context.Context, driverID uint) ([]models.Notification, error) {
	var reminders []models.Notification
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status = ?", driverID, models.NotificationStatusUnseen).
		Order("created_at DESC").
		Find(&reminders).Error
	return reminders, err
}
