package database

import (
	"github.com/kwizerafab/twende-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Trip{},
		&models.Booking{},
		&models.Payment{},
		&models.Rating{},
		&models.Notification{},
		&models.Location{},
		&models.OTP{},
	)
	if err != nil {
		return err
	}

	// Seat counts are also guarded at the database level: the conditional
	// UPDATE can never drive them negative, and neither can anything else.
	if db.Migrator().HasTable(&models.Trip{}) {
		db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_available_seats_check`)
		if err := db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_available_seats_check CHECK (available_seats >= 0)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('passenger', 'driver'))`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_status_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_status_check CHECK (status IN ('active', 'paused'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Rating{}) {
		db.Exec(`ALTER TABLE ratings DROP CONSTRAINT IF EXISTS ratings_rating_check`)
		if err := db.Exec(`ALTER TABLE ratings ADD CONSTRAINT ratings_rating_check CHECK (rating BETWEEN 1 AND 5)`).Error; err != nil {
			return err
		}
	}

	return nil
}
