package models

import (
	"gorm.io/gorm"
)

// Location is a named pickup/dropoff point offered in trip search.
type Location struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}
