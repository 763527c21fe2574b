package services

import (
	"context"
	"errors"
	"os"
	"regexp"
	"time"

	"github.com/kwizerafab/twende-backend/internal/models"
	"gorm.io/gorm"
)

// DefaultPlatePattern matches Rwandan private plates: a leading R, two
// uppercase letters, three digits and one trailing uppercase letter.
const DefaultPlatePattern = `^R[A-Z]{2}[0-9]{3}[A-Z]$`

// TripLedger owns trip records and their seat capacity. Seat reservation
// is a single conditional UPDATE so concurrent bookings can never oversell
// a trip or drive available_seats negative.
type TripLedger struct {
	db           *gorm.DB
	platePattern *regexp.Regexp
}

func NewTripLedger(db *gorm.DB) *TripLedger {
	pattern := os.Getenv("PLATE_PATTERN")
	if pattern == "" {
		pattern = DefaultPlatePattern
	}
	return &TripLedger{
		db:           db,
		platePattern: regexp.MustCompile(pattern),
	}
}

// WithTx returns a ledger bound to the given transaction handle.
func (l *TripLedger) WithTx(tx *gorm.DB) *TripLedger {
	return &TripLedger{db: tx, platePattern: l.platePattern}
}

func (l *TripLedger) ValidPlate(plate string) bool {
	return l.platePattern.MatchString(plate)
}

type PostTripInput struct {
	PlateNumber       string
	Destination       string
	DepartureLocation string
	TripTime          time.Time
	AvailableSeats    int
	Amount            float64
}

// PostTrip creates a trip owned by the calling driver.
func (l *TripLedger) PostTrip(ctx context.Context, driverID uint, input PostTripInput) (*models.Trip, error) {
	var driver models.User
	if err := l.db.WithContext(ctx).First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	if !driver.IsDriver() {
		return nil, ErrForbidden
	}
	if !l.ValidPlate(input.PlateNumber) {
		return nil, ErrInvalidPlateFormat
	}
	if input.AvailableSeats <= 0 {
		return nil, ErrInvalidSeatCount
	}

	trip := models.Trip{
		DriverID:          driverID,
		PlateNumber:       input.PlateNumber,
		Destination:       input.Destination,
		DepartureLocation: input.DepartureLocation,
		TripTime:          input.TripTime,
		AvailableSeats:    input.AvailableSeats,
		Amount:            input.Amount,
	}
	if err := l.db.WithContext(ctx).Create(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// ReserveSeats atomically checks and decrements a trip's seat capacity and
// returns the remaining count. The check-and-decrement is one statement;
// a losing concurrent caller observes InsufficientCapacityError with the
// seats that are actually left.
func (l *TripLedger) ReserveSeats(ctx context.Context, tripID uint, seats int) (int, error) {
	if seats <= 0 {
		return 0, ErrInvalidSeatCount
	}

	var updated struct {
		AvailableSeats int
	}
	result := l.db.WithContext(ctx).Raw(
		`UPDATE trips SET available_seats = available_seats - ?
		 WHERE id = ? AND available_seats >= ? AND deleted_at IS NULL
		 RETURNING available_seats`,
		seats, tripID, seats,
	).Scan(&updated)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		return updated.AvailableSeats, nil
	}

	// No row updated: either the trip does not exist or too few seats remain.
	var trip models.Trip
	err := l.db.WithContext(ctx).Select("available_seats").First(&trip, tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrTripNotFound
	}
	if err != nil {
		return 0, err
	}
	return trip.AvailableSeats, &InsufficientCapacityError{
		TripID:    tripID,
		Requested: seats,
		Remaining: trip.AvailableSeats,
	}
}

// ReleaseSeats is the compensating increment for a failed booking.
func (l *TripLedger) ReleaseSeats(ctx context.Context, tripID uint, seats int) error {
	if seats <= 0 {
		return ErrInvalidSeatCount
	}
	result := l.db.WithContext(ctx).Exec(
		`UPDATE trips SET available_seats = available_seats + ? WHERE id = ? AND deleted_at IS NULL`,
		seats, tripID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTripNotFound
	}
	return nil
}

func (l *TripLedger) GetTrip(ctx context.Context, tripID uint) (*models.Trip, error) {
	var trip models.Trip
	if err := l.db.WithContext(ctx).First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

// DriverTrips lists the trips a driver has posted, oldest first.
func (l *TripLedger) DriverTrips(ctx context.Context, driverID uint) ([]models.Trip, error) {
	var trips []models.Trip
	err := l.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("created_at").
		Find(&trips).Error
	return trips, err
}

// AvailableTrip is a trip joined with its driver for discovery responses.
type AvailableTrip struct {
	TripID            uint      `json:"tripId"`
	DriverID          uint      `json:"driverId"`
	DriverName        string    `json:"driverName"`
	DriverPhone       string    `json:"driverPhone"`
	PlateNumber       string    `json:"plateNumber"`
	Destination       string    `json:"destination"`
	DepartureLocation string    `json:"departureLocation"`
	TripTime          time.Time `json:"tripTime"`
	AvailableSeats    int       `json:"availableSeats"`
	Amount            float64   `json:"amount"`
}

const availableTripColumns = `trips.id AS trip_id, trips.driver_id, users.name AS driver_name,
	users.phone_number AS driver_phone, trips.plate_number, trips.destination,
	trips.departure_location, trips.trip_time, trips.available_seats, trips.amount`

// AvailableTrips lists every trip that still has seats, with driver contact.
func (l *TripLedger) AvailableTrips(ctx context.Context) ([]AvailableTrip, error) {
	var trips []AvailableTrip
	err := l.db.WithContext(ctx).Table("trips").
		Select(availableTripColumns).
		Joins("JOIN users ON users.id = trips.driver_id").
		Where("trips.available_seats > 0 AND trips.deleted_at IS NULL").
		Order("trips.trip_time").
		Scan(&trips).Error
	return trips, err
}

// AvailableDrivers searches trips on the requested route. When the route has
// no sellable trips it falls back to the next departing alternatives and
// reports the fallback so the caller can message the passenger accordingly.
func (l *TripLedger) AvailableDrivers(ctx context.Context, departure, destination string) ([]AvailableTrip, bool, error) {
	var trips []AvailableTrip
	err := l.db.WithContext(ctx).Table("trips").
		Select(availableTripColumns).
		Joins("JOIN users ON users.id = trips.driver_id").
		Where("trips.departure_location = ? AND trips.destination = ? AND trips.available_seats > 0 AND trips.deleted_at IS NULL",
			departure, destination).
		Scan(&trips).Error
	if err != nil {
		return nil, false, err
	}
	if len(trips) > 0 {
		return trips, false, nil
	}

	err = l.db.WithContext(ctx).Table("trips").
		Select(availableTripColumns).
		Joins("JOIN users ON users.id = trips.driver_id").
		Where("trips.available_seats > 0 AND trips.deleted_at IS NULL").
		Order("trips.trip_time").
		Limit(5).
		Scan(&trips).Error
	return trips, true, err
}

// TripPassenger is one row of a trip's booking manifest.
type TripPassenger struct {
	PassengerID uint                 `json:"passengerId"`
	Name        string               `json:"name"`
	BookingTime time.Time            `json:"bookingTime"`
	Status      models.BookingStatus `json:"status"`
	BookedSeats int                  `json:"bookedSeats"`
}

// TripDetails is a trip plus its passenger manifest.
type TripDetails struct {
	Trip       models.Trip     `json:"trip"`
	Passengers []TripPassenger `json:"passengers"`
}

func (l *TripLedger) TripDetails(ctx context.Context, tripID uint) (*TripDetails, error) {
	trip, err := l.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	var passengers []TripPassenger
	err = l.db.WithContext(ctx).Table("bookings").
		Select(`bookings.passenger_id, users.name, bookings.booking_time,
			bookings.status, bookings.booked_seats`).
		Joins("JOIN users ON users.id = bookings.passenger_id").
		Where("bookings.trip_id = ? AND bookings.deleted_at IS NULL", tripID).
		Scan(&passengers).Error
	if err != nil {
		return nil, err
	}
	return &TripDetails{Trip: *trip, Passengers: passengers}, nil
}

// CurrentTrip returns the most recently posted trip that is still open.
func (l *TripLedger) CurrentTrip(ctx context.Context) (*models.Trip, error) {
	var trip models.Trip
	err := l.db.WithContext(ctx).
		Order("created_at DESC").
		First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}
