package services

import (
	"context"
	"errors"
	"time"

	"github.com/kwizerafab/twende-backend/internal/models"
	"gorm.io/gorm"
)

const (
	// lowRatingThreshold is the weekly average below which a driver is
	// first warned and, after a full low-rating week, paused.
	lowRatingThreshold = 3.0

	// ratingWindow is the trailing period ratings are averaged over.
	ratingWindow = 7 * 24 * time.Hour

	// pauseDuration is both the grace period before a warned driver is
	// paused and the length of the pause itself.
	pauseDuration = 7 * 24 * time.Hour
)

// LowRatingReminderMessage is appended as an Unseen reminder for drivers
// whose all-time average is below the threshold.
const LowRatingReminderMessage = "Your rating is below 3. Improve it to avoid being paused."

// DefaultReminderMessage is returned when a driver has no stored reminders.
const DefaultReminderMessage = "Remember that after 1 week with a low rating, you will be paused."

type availabilityAction int

const (
	actionNone availabilityAction = iota
	actionStartLowRatingClock
	actionPause
	actionClearLowRatingClock
)

// decideAvailability is the pure transition function of the driver
// availability machine. lowSince is the start of the current low-rating
// streak, nil when the driver is in good standing.
func decideAvailability(status models.DriverStatus, avg float64, totalRatings int64, lowSince *time.Time, now time.Time) availabilityAction {
	if totalRatings == 0 {
		// No signal in the window; never warn or pause on silence.
		return actionNone
	}
	if avg >= lowRatingThreshold {
		if lowSince != nil {
			return actionClearLowRatingClock
		}
		return actionNone
	}
	if lowSince == nil {
		return actionStartLowRatingClock
	}
	if status == models.DriverStatusActive && now.Sub(*lowSince) >= pauseDuration {
		return actionPause
	}
	return actionNone
}

// RatingService aggregates per-driver ratings over the trailing window and
// drives the pause/unpause lifecycle on the driver record.
type RatingService struct {
	db    *gorm.DB
	relay *NotificationRelay
}

func NewRatingService(db *gorm.DB, relay *NotificationRelay) *RatingService {
	return &RatingService{db: db, relay: relay}
}

// SubmitRating records a passenger's rating for a booking they own.
func (s *RatingService) SubmitRating(ctx context.Context, bookingID, passengerID uint, rating int, now time.Time) (*models.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).
		Where("id = ? AND passenger_id = ?", bookingID, passengerID).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	exists, err := s.HasRating(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		// The unique index on (booking_id, passenger_id) backs this
		// check against races.
		return nil, ErrRatingExists
	}

	record := models.Rating{
		BookingID:   bookingID,
		TripID:      booking.TripID,
		DriverID:    booking.DriverID,
		PassengerID: passengerID,
		Rating:      rating,
		RatingDate:  now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// HasRating reports whether a rating was already submitted for a booking.
func (s *RatingService) HasRating(ctx context.Context, bookingID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count > 0, err
}

// EarningsReport is the outcome of a driver status evaluation.
type EarningsReport struct {
	AverageRating float64             `json:"averageRating"`
	TotalRatings  int64               `json:"totalRatings"`
	Status        models.DriverStatus `json:"status"`
	StatusChanged bool                `json:"statusChanged"`
}

// EvaluateDriverStatus computes the trailing 7-day average and advances the
// availability machine: a first low week starts the warning clock, a full
// low week pauses the driver, recovery clears the clock. Invoked on each
// earnings query and by the periodic sweep; both converge to the same state
// from the same inputs, so racing runs are harmless.
func (s *RatingService) EvaluateDriverStatus(ctx context.Context, driverID uint, now time.Time) (*EarningsReport, error) {
	var driver models.User
	if err := s.db.WithContext(ctx).First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	if !driver.IsDriver() {
		return nil, ErrForbidden
	}

	var agg struct {
		AverageRating float64
		TotalRatings  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(rating) AS total_ratings").
		Where("driver_id = ? AND rating_date >= ?", driverID, now.Add(-ratingWindow)).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	report := &EarningsReport{
		AverageRating: agg.AverageRating,
		TotalRatings:  agg.TotalRatings,
		Status:        driver.Status,
	}

	switch decideAvailability(driver.Status, agg.AverageRating, agg.TotalRatings, driver.LowRatingStart, now) {
	case actionStartLowRatingClock:
		err = s.db.WithContext(ctx).Model(&driver).
			Update("low_rating_start", now).Error
	case actionPause:
		err = s.db.WithContext(ctx).Model(&driver).Updates(map[string]interface{}{
			"status":    models.DriverStatusPaused,
			"paused_at": now,
		}).Error
		if err == nil {
			report.Status = models.DriverStatusPaused
			report.StatusChanged = true
			CacheDriverStatus(ctx, driverID, models.DriverStatusPaused)
		}
	case actionClearLowRatingClock:
		err = s.db.WithContext(ctx).Model(&driver).
			Update("low_rating_start", nil).Error
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// AutoUnpause reactivates every driver whose pause has run its full week.
// Returns the number of drivers unpaused.
func (s *RatingService) AutoUnpause(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_type = ? AND status = ? AND paused_at <= ?",
			models.UserTypeDriver, models.DriverStatusPaused, now.Add(-pauseDuration)).
		Updates(map[string]interface{}{
			"status":    models.DriverStatusActive,
			"paused_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SendLowRatingReminder appends an Unseen reminder when the driver's
// all-time average is below the threshold; otherwise it is a no-op.
func (s *RatingService) SendLowRatingReminder(ctx context.Context, driverID uint) (*models.Notification, float64, error) {
	var agg struct {
		AverageRating float64
	}
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating").
		Where("driver_id = ?", driverID).
		Scan(&agg).Error
	if err != nil {
		return nil, 0, err
	}

	if agg.AverageRating >= lowRatingThreshold {
		return nil, agg.AverageRating, nil
	}

	reminder, err := s.relay.Create(ctx, models.Notification{
		DriverID: driverID,
		Message:  LowRatingReminderMessage,
		Status:   models.NotificationStatusUnseen,
	})
	if err != nil {
		return nil, agg.AverageRating, err
	}
	return reminder, agg.AverageRating, nil
}
